package payment

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// Payment is the audit record of one claim attempt that reached the
// verification step, whether it passed or not. KeyID is set only when a key
// was actually handed out.
type Payment struct {
	ID        string         `gorm:"column:id;primaryKey" json:"id"`
	OrderCode string         `gorm:"column:order_code;index" json:"order_code"`
	Mod       string         `gorm:"column:mod;not null" json:"mod"`
	Plan      string         `gorm:"column:plan;not null" json:"plan"`
	Amount    int64          `gorm:"column:amount;not null" json:"amount"`
	UTR       string         `gorm:"column:utr;index;not null" json:"utr"`
	Status    Status         `gorm:"column:status;not null" json:"status"`
	Reason    string         `gorm:"column:reason" json:"reason,omitempty"`
	KeyID     *string        `gorm:"column:key_id" json:"key_id,omitempty"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
