package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/minio/minio-go/v7"
	"go.uber.org/fx"
	"go.uber.org/zap"

	asynqtype "modkeys-storefront/pkg/asynq"
	"modkeys-storefront/pkg/config"
)

// ArchiveHandler stores payment screenshots of successful claims in object
// storage so disputes can be settled after the fact.
type ArchiveHandler struct {
	client *minio.Client
	bucket string
}

type ArchiveParams struct {
	fx.In

	Client *minio.Client
	Config *config.Config
}

func NewArchiveHandler(p ArchiveParams) *ArchiveHandler {
	return &ArchiveHandler{
		client: p.Client,
		bucket: p.Config.Minio.BucketName,
	}
}

func (h *ArchiveHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload asynqtype.ArchiveScreenshotPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal archive payload: %w", err)
	}

	name := payload.OrderCode
	if name == "" {
		name = payload.UTR
	}
	objectName := fmt.Sprintf("screenshots/%s", name)

	_, err := h.client.PutObject(ctx, h.bucket, objectName,
		bytes.NewReader(payload.Screenshot), int64(len(payload.Screenshot)),
		minio.PutObjectOptions{ContentType: payload.MimeType})
	if err != nil {
		return fmt.Errorf("put screenshot %s: %w", objectName, err)
	}

	zap.L().Info("screenshot archived",
		zap.String("object", objectName),
		zap.String("utr", payload.UTR),
	)
	return nil
}

var Module = fx.Module("claim:task",
	fx.Provide(NewArchiveHandler),
	fx.Invoke(func(mux *asynq.ServeMux, h *ArchiveHandler) {
		mux.Handle(asynqtype.ArchiveScreenshotTask, h)
	}),
)
