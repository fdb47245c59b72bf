package verifier

import "context"

// Input is everything the vision model needs to judge a payment screenshot.
type Input struct {
	Mod        string
	Plan       string
	Amount     int64
	Currency   string
	UpiID      string
	UTR        string
	Screenshot []byte
	MimeType   string
}

// Result is the model's verdict. Reason is only meaningful when Verified is
// false.
type Result struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason"`
}

// Verifier decides whether a payment screenshot proves a real transfer.
// Implementations return an error only for infrastructure failures; a
// rejected payment is a successful call with Verified=false.
type Verifier interface {
	Verify(ctx context.Context, in Input) (Result, error)
}
