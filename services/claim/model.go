package claim

import "time"

// Request is one buyer attempt to exchange a UPI payment for a key.
type Request struct {
	Mod        string `json:"mod"`
	Plan       string `json:"plan"`
	Price      int64  `json:"price"`
	UTRNumber  string `json:"utr_number"`
	Screenshot []byte `json:"screenshot"`
	MimeType   string `json:"mime_type"`
}

// Receipt is what a successful claim hands back to the buyer.
type Receipt struct {
	OrderCode string    `json:"order_code,omitempty"`
	KeyID     string    `json:"key_id"`
	Key       string    `json:"key"`
	Mod       string    `json:"mod"`
	Plan      string    `json:"plan"`
	Price     int64     `json:"price"`
	UTR       string    `json:"utr"`
	ClaimedAt time.Time `json:"claimed_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
