// Package importer is the one-time bootstrap path: it reads a catalog and a
// receipt history from exported JSON files and populates the schema. It is
// deliberately outside the hot checkout path and best-effort where the live
// path is strict: imported receipt lines resolve their product id by exact
// name match, and lines that match nothing are surfaced, not dropped.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-till/internal/domain"
	"pos-till/internal/repository"
)

// dateLayout matches the exported receipt date format.
const dateLayout = "2006-01-02 15:04:05"

type productRecord struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type receiptRecord struct {
	Date         string           `json:"date"`
	Total        decimal.Decimal  `json:"total"`
	CashReceived *decimal.Decimal `json:"cash_received"`
	Change       *decimal.Decimal `json:"change"`
	Items        []itemRecord     `json:"items"`
}

type itemRecord struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
	Total decimal.Decimal `json:"total"`
}

// UnmatchedLine identifies an imported receipt line whose product name
// matched nothing in the catalog; its product id was stored as absent.
type UnmatchedLine struct {
	ReceiptID   int64
	ProductName string
}

// Report summarizes one import run.
type Report struct {
	ProductsImported int
	ReceiptsImported int
	ItemsImported    int
	Unmatched        []UnmatchedLine
}

// Importer populates the schema from exported flat files.
type Importer struct {
	products repository.ProductRepository
	receipts repository.ReceiptRepository
	logger   *zap.Logger
}

// New creates an Importer.
func New(products repository.ProductRepository, receipts repository.ReceiptRepository, logger *zap.Logger) *Importer {
	return &Importer{products: products, receipts: receipts, logger: logger}
}

// Run imports the catalog file and, if receiptsPath is non-empty, the
// receipt history. A missing receipts file is normal for a fresh install.
func (i *Importer) Run(ctx context.Context, productsPath, receiptsPath string) (*Report, error) {
	report := &Report{}

	if err := i.importProducts(ctx, productsPath, report); err != nil {
		return nil, err
	}

	if receiptsPath != "" {
		if err := i.importReceipts(ctx, receiptsPath, report); err != nil {
			return nil, err
		}
	}

	for _, u := range report.Unmatched {
		i.logger.Warn("Imported receipt line without product match",
			zap.Int64("receipt_id", u.ReceiptID),
			zap.String("product_name", u.ProductName),
		)
	}

	return report, nil
}

func (i *Importer) importProducts(ctx context.Context, path string, report *Report) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read products file: %w", err)
	}

	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse products file: %w", err)
	}

	for _, rec := range records {
		product := &domain.Product{
			Name:     rec.Name,
			Price:    rec.Price.Round(2),
			Category: rec.Category,
		}
		if product.Category == "" {
			product.Category = domain.FallbackCategory
		}

		if err := i.products.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to import product %q: %w", rec.Name, err)
		}
		report.ProductsImported++
	}

	i.logger.Info("Products imported", zap.Int("count", report.ProductsImported))
	return nil
}

func (i *Importer) importReceipts(ctx context.Context, path string, report *Report) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Normal when no transactions were ever exported.
			i.logger.Info("No receipts file found, skipping", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to read receipts file: %w", err)
	}

	var records []receiptRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse receipts file: %w", err)
	}

	// Snapshot the catalog once; exact-name matches resolve against it.
	index, err := i.productIndex(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		date, err := time.ParseInLocation(dateLayout, rec.Date, time.Local)
		if err != nil {
			return fmt.Errorf("failed to parse receipt date %q: %w", rec.Date, err)
		}

		cash := rec.Total
		if rec.CashReceived != nil {
			cash = *rec.CashReceived
		}
		change := decimal.Zero
		if rec.Change != nil {
			change = *rec.Change
		}

		receipt := &domain.Receipt{
			Date:         date,
			Total:        rec.Total.Round(2),
			CashReceived: cash.Round(2),
			Change:       change.Round(2),
		}

		var unmatched []string
		for _, item := range rec.Items {
			var productID *int64
			if id, ok := index[item.Name]; ok {
				productID = &id
			} else {
				unmatched = append(unmatched, item.Name)
			}

			receipt.Items = append(receipt.Items, domain.ReceiptItem{
				ProductID:   productID,
				ProductName: item.Name,
				Price:       item.Price.Round(2),
				Qty:         item.Qty,
				Total:       item.Total.Round(2),
			})
		}

		receiptID, err := i.receipts.Save(ctx, receipt)
		if err != nil {
			return fmt.Errorf("failed to import receipt dated %s: %w", rec.Date, err)
		}

		report.ReceiptsImported++
		report.ItemsImported += len(receipt.Items)
		for _, name := range unmatched {
			report.Unmatched = append(report.Unmatched, UnmatchedLine{
				ReceiptID:   receiptID,
				ProductName: name,
			})
		}
	}

	i.logger.Info("Receipts imported",
		zap.Int("receipts", report.ReceiptsImported),
		zap.Int("items", report.ItemsImported),
		zap.Int("unmatched_lines", len(report.Unmatched)),
	)
	return nil
}

// productIndex maps product name to id. Duplicate names keep the lowest id
// so resolution is deterministic.
func (i *Importer) productIndex(ctx context.Context) (map[string]int64, error) {
	products, err := i.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for reconciliation: %w", err)
	}

	index := make(map[string]int64, len(products))
	for _, p := range products {
		if existing, ok := index[p.Name]; !ok || p.ID < existing {
			index[p.Name] = p.ID
		}
	}
	return index, nil
}
