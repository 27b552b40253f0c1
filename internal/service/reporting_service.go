package service

import (
	"context"
	"errors"
	"time"

	"pos-till/internal/domain"
	"pos-till/internal/repository"
)

// ReportingService is the read layer over the ledger for the history and
// summary views.
type ReportingService interface {
	GetReceipt(ctx context.Context, id int64) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error)
	SalesSummary(ctx context.Context) (*domain.SalesSummary, error)
	ResetSales(ctx context.Context) error
}

type reportingService struct {
	receipts     repository.ReceiptRepository
	defaultLimit int
}

// NewReportingService creates a new instance of ReportingService.
// defaultLimit bounds history listings when the caller passes none.
func NewReportingService(receipts repository.ReceiptRepository, defaultLimit int) ReportingService {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &reportingService{receipts: receipts, defaultLimit: defaultLimit}
}

// GetReceipt returns the full receipt, or (nil, nil) when the id is unknown.
func (s *reportingService) GetReceipt(ctx context.Context, id int64) (*domain.Receipt, error) {
	receipt, err := s.receipts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return receipt, nil
}

// ListReceipts returns header summaries, newest first.
func (s *reportingService) ListReceipts(ctx context.Context, limit int) ([]*domain.ReceiptSummary, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.receipts.List(ctx, limit)
}

// SalesSummary aggregates the ledger as of now, local time.
func (s *reportingService) SalesSummary(ctx context.Context) (*domain.SalesSummary, error) {
	return s.receipts.SalesSummary(ctx, time.Now())
}

// ResetSales wipes the ledger. Explicit maintenance path only.
func (s *reportingService) ResetSales(ctx context.Context) error {
	return s.receipts.Reset(ctx)
}
