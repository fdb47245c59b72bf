package inventory

import (
	"time"

	"modkeys-storefront/services/catalog"
)

type KeyStatus string

const (
	StatusAvailable KeyStatus = "available"
	StatusClaimed   KeyStatus = "claimed"
)

// Key is one sellable access credential. Status moves from available to
// claimed exactly once; UTR and ClaimedAt are set together at that moment and
// never change afterwards. Deletion removes the row, there is no third state.
type Key struct {
	ID        string     `gorm:"column:id;primaryKey" json:"id"`
	Value     string     `gorm:"column:value;uniqueIndex;not null" json:"value"`
	Mod       string     `gorm:"column:mod;index;not null" json:"mod"`
	Plan      string     `gorm:"column:plan;index;not null" json:"plan"`
	Price     int64      `gorm:"column:price;not null" json:"price"`
	Status    KeyStatus  `gorm:"column:status;not null;default:'available'" json:"status"`
	UTR       *string    `gorm:"column:utr;uniqueIndex" json:"utr,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	ClaimedAt *time.Time `gorm:"column:claimed_at" json:"claimed_at,omitempty"`
}

func (Key) TableName() string { return "keys" }

// Classification is the view-time state of a key. Expiry is derived from
// ClaimedAt plus the plan duration, never stored.
type Classification string

const (
	ClassAvailable Classification = "available"
	ClassActive    Classification = "active"
	ClassExpired   Classification = "expired"
)

// ExpiresAt computes the expiry instant of a claimed key. The zero time is
// returned for unclaimed keys.
func (k *Key) ExpiresAt() (time.Time, error) {
	if k.Status != StatusClaimed || k.ClaimedAt == nil {
		return time.Time{}, nil
	}

	d, err := catalog.ParsePlanDuration(k.Plan)
	if err != nil {
		return time.Time{}, err
	}

	return d.AddTo(*k.ClaimedAt), nil
}

// IsExpired reports whether now is past the key's expiry. Unclaimed keys are
// never expired. A malformed plan label is an error, not an immortal key.
func (k *Key) IsExpired(now time.Time) (bool, error) {
	exp, err := k.ExpiresAt()
	if err != nil {
		return false, err
	}
	if exp.IsZero() {
		return false, nil
	}
	return now.After(exp), nil
}

// Classify buckets the key into available / active / expired as of now.
func (k *Key) Classify(now time.Time) (Classification, error) {
	if k.Status != StatusClaimed {
		return ClassAvailable, nil
	}

	expired, err := k.IsExpired(now)
	if err != nil {
		return "", err
	}
	if expired {
		return ClassExpired, nil
	}
	return ClassActive, nil
}
