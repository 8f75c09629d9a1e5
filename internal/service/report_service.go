package service

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/report"
	"go-inventory-pos/internal/repository"
)

// ReportService loads a fresh snapshot per call and runs the report
// projections over it.
type ReportService interface {
	Summary(ctx context.Context) (*report.Report, error)
	Dashboard(ctx context.Context) (*report.Dashboard, error)
	Inventory(ctx context.Context) ([]report.CategoryGroup, error)
	History(ctx context.Context) ([]report.HistoryEntry, error)
	StockMovement(ctx context.Context, days int) ([]report.MovementDay, error)
	LowStock(ctx context.Context) ([]report.LowStockItem, error)
}

// snapshot is products and ledger read at one point in time.
type snapshot struct {
	Products     []model.Product
	Transactions []model.Transaction
}

type reportService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	now             func() time.Time
}

func NewReportService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository) ReportService {
	return &reportService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) loadSnapshot(ctx context.Context) (*snapshot, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("load products", err)
	}
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("load transactions", err)
	}
	return &snapshot{Products: products, Transactions: transactions}, nil
}

func (s *reportService) Summary(ctx context.Context) (*report.Report, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	r := report.Build(snap.Products, snap.Transactions)
	return &r, nil
}

func (s *reportService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("load products", err)
	}
	d := report.BuildDashboard(products)
	return &d, nil
}

func (s *reportService) Inventory(ctx context.Context) ([]report.CategoryGroup, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("load products", err)
	}
	return report.GroupByCategory(products), nil
}

func (s *reportService) History(ctx context.Context) ([]report.HistoryEntry, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return report.History(snap.Products, snap.Transactions), nil
}

// StockMovement covers the last days days up to now.
func (s *reportService) StockMovement(ctx context.Context, days int) ([]report.MovementDay, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("load transactions", err)
	}
	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)
	return report.Movement(transactions, startDate, endDate), nil
}

func (s *reportService) LowStock(ctx context.Context) ([]report.LowStockItem, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("load products", err)
	}
	return report.LowStock(products), nil
}
