package main

import (
	"bufio"
	"context"
	"flag"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"modkeys-storefront/pkg/config"
	"modkeys-storefront/pkg/db"
	"modkeys-storefront/pkg/gen"
	"modkeys-storefront/pkg/logger"
	"modkeys-storefront/services/catalog"
	"modkeys-storefront/services/inventory"
)

var (
	modName  = flag.String("mod", "", "mod the keys belong to")
	planName = flag.String("plan", "", "plan duration, e.g. \"3 Day\"")
	file     = flag.String("file", "-", "file with one key value per line, - for stdin")
)

// Bulk-loads key values into the inventory. The batch is all-or-nothing.
func main() {
	flag.Parse()

	fx.New(
		config.Module,
		logger.Module,
		gen.Module,
		db.Module,
		catalog.Module,
		inventory.Module,

		fx.Invoke(func(conn *gorm.DB) error {
			return conn.AutoMigrate(inventory.Models()...)
		}),
		fx.Invoke(seed),
	).Run()
}

func seed(svc *inventory.Service, shutdowner fx.Shutdowner) {
	values, err := readValues(*file)
	if err != nil {
		zap.L().Fatal("read key values", zap.Error(err))
	}

	created, err := svc.BulkCreate(context.Background(), *modName, *planName, values)
	if err != nil {
		zap.L().Fatal("seed keys", zap.Error(err))
	}

	zap.L().Info("keys seeded",
		zap.String("mod", *modName),
		zap.String("plan", *planName),
		zap.Int("count", len(created)),
	)
	_ = shutdowner.Shutdown()
}

func readValues(path string) ([]string, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var values []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		values = append(values, scanner.Text())
	}
	return values, scanner.Err()
}
