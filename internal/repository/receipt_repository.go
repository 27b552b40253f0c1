package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pos-till/internal/domain"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ReceiptRepository defines the interface for the order ledger. Receipts are
// written exactly once and never updated; Reset is the only way rows leave
// the ledger.
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *domain.Receipt) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Receipt, error)
	List(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error)
	SalesSummary(ctx context.Context, now time.Time) (*domain.SalesSummary, error)
	Reset(ctx context.Context) error
}

type receiptRepository struct {
	db *sql.DB
}

// NewReceiptRepository creates a new instance of ReceiptRepository
func NewReceiptRepository(db *sql.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

// Save persists the receipt header and every line in a single transaction.
// Either the receipt and all its items become durably visible, or nothing
// does; the caller keeps its cart on failure so the sale can be retried.
// The ledger trusts the caller's figures and does not recompute them.
func (r *receiptRepository) Save(ctx context.Context, receipt *domain.Receipt) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("save receipt", err)
	}
	defer tx.Rollback()

	var receiptID int64
	err = tx.QueryRowContext(
		ctx,
		`INSERT INTO receipts (date, total, cash_received, change)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		receipt.Date,
		receipt.Total,
		receipt.CashReceived,
		receipt.Change,
	).Scan(&receiptID)
	if err != nil {
		return 0, storageErr("save receipt header", err)
	}

	for _, item := range receipt.Items {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO receipt_items (receipt_id, product_id, product_name, price, qty, total)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			receiptID,
			item.ProductID,
			item.ProductName,
			item.Price,
			item.Qty,
			item.Total,
		)
		if err != nil {
			return 0, storageErr("save receipt item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("save receipt", err)
	}

	receipt.ID = receiptID
	return receiptID, nil
}

// FindByID retrieves the full receipt with its items in sale order, or
// ErrReceiptNotFound.
func (r *receiptRepository) FindByID(ctx context.Context, id int64) (*domain.Receipt, error) {
	receipt := &domain.Receipt{}
	err := r.db.QueryRowContext(
		ctx,
		`SELECT id, date, total, cash_received, change
		 FROM receipts
		 WHERE id = $1`,
		id,
	).Scan(
		&receipt.ID,
		&receipt.Date,
		&receipt.Total,
		&receipt.CashReceived,
		&receipt.Change,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReceiptNotFound
		}
		return nil, storageErr("find receipt by id", err)
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, receipt_id, product_id, product_name, price, qty, total
		 FROM receipt_items
		 WHERE receipt_id = $1
		 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, storageErr("find receipt items", err)
	}
	defer rows.Close()

	receipt.Items = []domain.ReceiptItem{}
	for rows.Next() {
		var item domain.ReceiptItem
		err := rows.Scan(
			&item.ID,
			&item.ReceiptID,
			&item.ProductID,
			&item.ProductName,
			&item.Price,
			&item.Qty,
			&item.Total,
		)
		if err != nil {
			return nil, storageErr("scan receipt item", err)
		}
		receipt.Items = append(receipt.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate receipt items", err)
	}

	return receipt, nil
}

// List retrieves header-only summaries, newest first, truncated to limit.
func (r *receiptRepository) List(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT r.id, r.date, r.total, r.cash_received, r.change,
		        COUNT(ri.id) AS items_count
		 FROM receipts r
		 LEFT JOIN receipt_items ri ON r.id = ri.receipt_id
		 GROUP BY r.id
		 ORDER BY r.date DESC, r.id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, storageErr("list receipts", err)
	}
	defer rows.Close()

	summaries := []*domain.ReceiptSummary{}
	for rows.Next() {
		summary := &domain.ReceiptSummary{}
		err := rows.Scan(
			&summary.ID,
			&summary.Date,
			&summary.Total,
			&summary.CashReceived,
			&summary.Change,
			&summary.ItemsCount,
		)
		if err != nil {
			return nil, storageErr("scan receipt summary", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate receipt summaries", err)
	}

	return summaries, nil
}

// SalesSummary aggregates the whole ledger and the calendar day containing
// now, in now's location. An empty ledger yields zero counts and sums.
func (r *receiptRepository) SalesSummary(ctx context.Context, now time.Time) (*domain.SalesSummary, error) {
	summary := &domain.SalesSummary{}

	err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM receipts`,
	).Scan(&summary.TotalReceipts, &summary.TotalSales)
	if err != nil {
		return nil, storageErr("sales summary", err)
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	err = r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0)
		 FROM receipts
		 WHERE date >= $1 AND date < $2`,
		dayStart,
		dayEnd,
	).Scan(&summary.TodayReceipts, &summary.TodaySales)
	if err != nil {
		return nil, storageErr("today sales summary", err)
	}

	return summary, nil
}

// Reset deletes every receipt and, through the cascading foreign key, every
// receipt item. This is an explicit maintenance path, not a normal one.
func (r *receiptRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM receipts`); err != nil {
		return storageErr("reset receipts", err)
	}
	return nil
}
