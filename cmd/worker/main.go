package main

import (
	"go.uber.org/fx"

	pkgasynq "modkeys-storefront/pkg/asynq"
	"modkeys-storefront/pkg/config"
	"modkeys-storefront/pkg/logger"
	"modkeys-storefront/pkg/minio"
	"modkeys-storefront/services/claim/task"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		minio.Client,
		pkgasynq.Server,
		task.Module,
	).Run()
}
