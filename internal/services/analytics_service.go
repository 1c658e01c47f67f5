package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lathikasakthivel/voice-based-expense-logger/internal/cache"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/log"
	"github.com/lathikasakthivel/voice-based-expense-logger/internal/storage"
)

const (
	analyticsCacheSize = 256
	analyticsCacheTTL  = 30 * time.Second

	recentWindow = 30 * 24 * time.Hour
	monthWindow  = 180 * 24 * time.Hour
)

// Summary is the headline view of a user's money over the last 30 days,
// plus the all-time saved total across goals.
type Summary struct {
	TotalSpentCents int64
	ExpenseCount    int64
	AverageCents    int64
	TotalSavedCents int64
}

// AnalyticsService answers aggregate queries with a short-lived cache in
// front of SQLite. Writes call InvalidateUser so readers never see stale
// data longer than the TTL. All views for a user share the "user:<id>:"
// key prefix so invalidation is a single prefix delete.
type AnalyticsService struct {
	store  AnalyticsStore
	cache  *cache.LRU[any]
	logger *log.Logger
}

func NewAnalyticsService(store AnalyticsStore, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{
		store:  store,
		cache:  cache.NewLRU[any](analyticsCacheSize, analyticsCacheTTL),
		logger: logger.WithComponent(log.ComponentAnalytics),
	}
}

func viewKey(userID int64, view string) string {
	return fmt.Sprintf("user:%d:%s", userID, view)
}

func (s *AnalyticsService) Summary(ctx context.Context, userID int64) (Summary, error) {
	key := viewKey(userID, "summary")
	if v, ok := s.cache.Get(key); ok {
		return v.(Summary), nil
	}

	window := storage.ExpenseFilter{Since: time.Now().UTC().Add(-recentWindow)}
	spent, err := s.store.SumExpenses(ctx, userID, window)
	if err != nil {
		return Summary{}, err
	}
	count, err := s.store.CountExpenses(ctx, userID, window)
	if err != nil {
		return Summary{}, err
	}
	saved, err := s.store.TotalSaved(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{TotalSpentCents: spent, ExpenseCount: count, TotalSavedCents: saved}
	if count > 0 {
		sum.AverageCents = spent / count
	}
	s.cache.Set(key, sum)
	return sum, nil
}

// CategoryBreakdown reports spend per category over the last 30 days,
// highest first.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, userID int64) ([]storage.CategoryTotal, error) {
	key := viewKey(userID, "categories")
	if v, ok := s.cache.Get(key); ok {
		return v.([]storage.CategoryTotal), nil
	}

	totals, err := s.store.CategoryTotals(ctx, userID, storage.ExpenseFilter{
		Since: time.Now().UTC().Add(-recentWindow),
	})
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, totals)
	return totals, nil
}

// MonthBreakdown reports spend per calendar month over roughly the last six
// months, oldest first.
func (s *AnalyticsService) MonthBreakdown(ctx context.Context, userID int64) ([]storage.PeriodTotal, error) {
	key := viewKey(userID, "months")
	if v, ok := s.cache.Get(key); ok {
		return v.([]storage.PeriodTotal), nil
	}

	totals, err := s.store.MonthTotals(ctx, userID, time.Now().UTC().Add(-monthWindow))
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, totals)
	return totals, nil
}

// InvalidateUser drops all cached analytics for the user. Called after any
// expense or goal write.
func (s *AnalyticsService) InvalidateUser(userID int64) {
	s.cache.DeletePrefix(fmt.Sprintf("user:%d:", userID))
}
