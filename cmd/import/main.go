// Command import is the one-time bootstrap: it migrates the schema and
// loads an exported catalog (and optionally receipt history) into the
// database. It is not part of the live checkout path.
package main

import (
	"context"
	"flag"
	"fmt"

	"pos-till/internal/config"
	"pos-till/internal/database"
	"pos-till/internal/importer"
	"pos-till/internal/logger"
	"pos-till/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	productsPath := flag.String("products", "data/products.json", "exported products file")
	receiptsPath := flag.String("receipts", "data/receipts.json", "exported receipts file (optional)")
	migrationsDir := flag.String("migrations", "migrations", "goose migrations directory")
	flag.Parse()

	// Best effort; the environment may already be populated.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService := database.New()
	defer dbService.Close()
	db := dbService.DB()

	if err := database.RunMigrations(db, *migrationsDir, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	imp := importer.New(
		repository.NewProductRepository(db),
		repository.NewReceiptRepository(db),
		log,
	)

	report, err := imp.Run(context.Background(), *productsPath, *receiptsPath)
	if err != nil {
		log.Fatal("Import failed", zap.Error(err))
	}

	log.Info("Import complete",
		zap.Int("products", report.ProductsImported),
		zap.Int("receipts", report.ReceiptsImported),
		zap.Int("items", report.ItemsImported),
		zap.Int("unmatched_lines", len(report.Unmatched)),
	)
}
