package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"modkeys-storefront/internal/httpapi"
	pkgasynq "modkeys-storefront/pkg/asynq"
	"modkeys-storefront/pkg/config"
	"modkeys-storefront/pkg/db"
	"modkeys-storefront/pkg/gen"
	"modkeys-storefront/pkg/genai"
	"modkeys-storefront/pkg/health"
	"modkeys-storefront/pkg/logger"
	"modkeys-storefront/pkg/redis"
	"modkeys-storefront/pkg/sequence"
	"modkeys-storefront/pkg/server"
	"modkeys-storefront/services/adminauth"
	"modkeys-storefront/services/catalog"
	"modkeys-storefront/services/claim"
	"modkeys-storefront/services/inventory"
	"modkeys-storefront/services/payment"
	"modkeys-storefront/services/recommend"
	"modkeys-storefront/services/verifier"
)

func main() {
	fx.New(
		config.Module,
		logger.Module,
		gen.Module,
		genai.Module,
		db.Module,
		redis.Module,
		pkgasynq.Client,
		sequence.Module,
		health.Module,

		catalog.Module,
		inventory.Module,
		payment.Module,
		verifier.Module,
		recommend.Module,
		claim.Module,
		adminauth.Module,

		httpapi.Module,
		server.Module,

		fx.Invoke(autoMigrate),
	).Run()
}

func autoMigrate(conn *gorm.DB) {
	models := append(inventory.Models(),
		&payment.Payment{},
		&adminauth.APIKey{},
	)
	if err := conn.AutoMigrate(models...); err != nil {
		zap.L().Fatal("auto migration failed", zap.Error(err))
	}
}
