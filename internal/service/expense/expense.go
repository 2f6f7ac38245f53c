package expense

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/trip"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type ExpenseService struct {
	expenseRepo expense.Repository
	fuelRepo    fuel.Repository
	tripRepo    trip.Repository
	logger      *zap.Logger
}

func NewExpenseService(expenseRepo expense.Repository, fuelRepo fuel.Repository, tripRepo trip.Repository, logger *zap.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		fuelRepo:    fuelRepo,
		tripRepo:    tripRepo,
		logger:      logger,
	}
}

func (s *ExpenseService) Create(ctx context.Context, createdByID int64, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
	if !req.Category.Valid() {
		return nil, xerrors.Validationf("unknown expense category: %s", req.Category)
	}
	if req.TripID != nil {
		if _, err := s.tripRepo.FindByID(ctx, *req.TripID); err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.Validationf("trip %d does not exist", *req.TripID)
			}
			return nil, err
		}
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	e := &expense.Expense{
		TripID:      req.TripID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
		Date:        date,
		CreatedByID: createdByID,
	}
	if err := s.expenseRepo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create expense", zap.Error(err))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("expense created",
		zap.Int64("expense_id", e.ID),
		zap.String("category", string(e.Category)),
		zap.Float64("amount", e.Amount),
	)
	return e, nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (*expense.Expense, error) {
	return s.expenseRepo.FindByID(ctx, id)
}

func (s *ExpenseService) Update(ctx context.Context, id int64, req *expense.UpdateExpenseRequest) (*expense.Expense, error) {
	if !req.Category.Valid() {
		return nil, xerrors.Validationf("unknown expense category: %s", req.Category)
	}
	e, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.TripID != nil {
		if _, err := s.tripRepo.FindByID(ctx, *req.TripID); err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.Validationf("trip %d does not exist", *req.TripID)
			}
			return nil, err
		}
	}
	date := e.Date
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			return nil, err
		}
	}

	e.TripID = req.TripID
	e.Category = req.Category
	e.Amount = req.Amount
	e.Description = req.Description
	e.Date = date

	if err := s.expenseRepo.Update(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	return s.expenseRepo.Delete(ctx, id)
}

func (s *ExpenseService) List(ctx context.Context) ([]expense.Info, error) {
	return s.expenseRepo.List(ctx)
}

// Combined merges direct expenses with read-only rows derived from fuel
// logs, newest-first. Fuel-derived rows carry a "fuel-<id>" pseudo id and
// cannot be edited or deleted through the expense endpoints.
func (s *ExpenseService) Combined(ctx context.Context) ([]expense.Entry, error) {
	direct, err := s.expenseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	fuelLogs, err := s.fuelRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]expense.Entry, 0, len(direct)+len(fuelLogs))
	for _, e := range direct {
		entries = append(entries, expense.Entry{
			ID:          fmt.Sprintf("%d", e.ID),
			Source:      expense.SourceDirect,
			Category:    e.Category,
			Amount:      e.Amount,
			Description: e.Description,
			Date:        e.Date,
			Trip:        e.Trip,
			CreatedBy:   e.CreatedBy,
		})
	}
	for _, f := range fuelLogs {
		entries = append(entries, expense.Entry{
			ID:          fmt.Sprintf("fuel-%d", f.ID),
			Source:      expense.SourceFuelDerived,
			Category:    expense.CategoryFuel,
			Amount:      f.TotalCost,
			Description: fmt.Sprintf("Fuel - %s (%.1f L)", f.VehicleName, f.Liters),
			Date:        f.Date,
			CreatedBy:   f.Driver,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Now().Truncate(24 * time.Hour), nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, xerrors.Validationf("date must be YYYY-MM-DD")
	}
	return d, nil
}
