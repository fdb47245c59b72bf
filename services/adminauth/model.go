package adminauth

import "time"

// APIKey is an operator credential. Only the SHA-256 of the secret is kept;
// the plaintext is shown once at issue time.
type APIKey struct {
	ID         string     `gorm:"column:id;primaryKey" json:"id"`
	Name       string     `gorm:"column:name;not null" json:"name"`
	KeyHash    string     `gorm:"column:key_hash;uniqueIndex;not null" json:"-"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
}

func (APIKey) TableName() string { return "api_keys" }
