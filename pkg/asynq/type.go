package asynq

const (
	// ArchiveScreenshotTask uploads the payment screenshot of a successful
	// claim to object storage for later dispute handling.
	ArchiveScreenshotTask = "claim:archive_screenshot"
)

type ArchiveScreenshotPayload struct {
	OrderCode  string `json:"order_code"`
	UTR        string `json:"utr"`
	MimeType   string `json:"mime_type"`
	Screenshot []byte `json:"screenshot"`
}
