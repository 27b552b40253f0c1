package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"pos-till/internal/domain"
	"pos-till/internal/repository"
)

// In-memory stand-ins for the repositories, used to exercise the service
// layer without a database.

type fakeProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
	err      error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*domain.Product{}, nextID: 1}
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	if f.err != nil {
		return f.err
	}
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Product{}
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeProductRepo) Search(_ context.Context, query string) ([]*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*domain.Product{}
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeCategoryRepo struct {
	products *fakeProductRepo
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range f.products.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCategoryRepo) Products(_ context.Context, category string) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, p := range f.products.products {
		if p.Category == category {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategoryRepo) Rename(_ context.Context, oldName, newName string) (int64, error) {
	if oldName == newName {
		return 0, nil
	}
	var affected int64
	for _, p := range f.products.products {
		if p.Category == oldName {
			p.Category = newName
			affected++
		}
	}
	return affected, nil
}

func (f *fakeCategoryRepo) Reassign(_ context.Context, name, fallback string) (int64, error) {
	return f.Rename(context.Background(), name, fallback)
}

type fakeEmojiRepo struct {
	emojis  map[string]string
	renames int
	deletes int
}

func newFakeEmojiRepo() *fakeEmojiRepo {
	return &fakeEmojiRepo{emojis: map[string]string{}}
}

func (f *fakeEmojiRepo) Set(_ context.Context, category, emoji string) error {
	if emoji == "" {
		delete(f.emojis, category)
		return nil
	}
	f.emojis[category] = emoji
	return nil
}

func (f *fakeEmojiRepo) Get(_ context.Context, category string) (string, error) {
	return f.emojis[category], nil
}

func (f *fakeEmojiRepo) All(_ context.Context) (map[string]string, error) {
	out := map[string]string{}
	for k, v := range f.emojis {
		out[k] = v
	}
	return out, nil
}

func (f *fakeEmojiRepo) Rename(_ context.Context, oldName, newName string) error {
	f.renames++
	if emoji, ok := f.emojis[oldName]; ok {
		f.emojis[newName] = emoji
		delete(f.emojis, oldName)
	}
	return nil
}

func (f *fakeEmojiRepo) Delete(_ context.Context, category string) error {
	f.deletes++
	delete(f.emojis, category)
	return nil
}

type fakeReceiptRepo struct {
	receipts []*domain.Receipt
	nextID   int64
	saveErr  error
}

func newFakeReceiptRepo() *fakeReceiptRepo {
	return &fakeReceiptRepo{nextID: 1}
}

func (f *fakeReceiptRepo) Save(_ context.Context, receipt *domain.Receipt) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	cp := *receipt
	cp.ID = f.nextID
	f.nextID++
	f.receipts = append(f.receipts, &cp)
	receipt.ID = cp.ID
	return cp.ID, nil
}

func (f *fakeReceiptRepo) FindByID(_ context.Context, id int64) (*domain.Receipt, error) {
	for _, r := range f.receipts {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrReceiptNotFound
}

func (f *fakeReceiptRepo) List(_ context.Context, limit int) ([]*domain.ReceiptSummary, error) {
	out := []*domain.ReceiptSummary{}
	for i := len(f.receipts) - 1; i >= 0 && len(out) < limit; i-- {
		r := f.receipts[i]
		out = append(out, &domain.ReceiptSummary{
			ID:           r.ID,
			Date:         r.Date,
			Total:        r.Total,
			CashReceived: r.CashReceived,
			Change:       r.Change,
			ItemsCount:   len(r.Items),
		})
	}
	return out, nil
}

func (f *fakeReceiptRepo) SalesSummary(_ context.Context, now time.Time) (*domain.SalesSummary, error) {
	summary := &domain.SalesSummary{}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, r := range f.receipts {
		summary.TotalReceipts++
		summary.TotalSales = summary.TotalSales.Add(r.Total)
		if !r.Date.Before(dayStart) {
			summary.TodayReceipts++
			summary.TodaySales = summary.TodaySales.Add(r.Total)
		}
	}
	return summary, nil
}

func (f *fakeReceiptRepo) Reset(_ context.Context) error {
	f.receipts = nil
	return nil
}
