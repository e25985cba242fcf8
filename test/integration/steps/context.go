// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"time"

	"github.com/cucumber/godog"

	"github.com/finance-tracker/engine/internal/application/adapter"
	budgetusecase "github.com/finance-tracker/engine/internal/application/usecase/budget"
	entryusecase "github.com/finance-tracker/engine/internal/application/usecase/entry"
	"github.com/finance-tracker/engine/internal/application/usecase/recurrence"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	"github.com/finance-tracker/engine/internal/domain/entity"
	"github.com/finance-tracker/engine/internal/integration/cache"
	"github.com/finance-tracker/engine/internal/integration/notification"
	"github.com/finance-tracker/engine/internal/integration/persistence"
	"github.com/finance-tracker/engine/test/integration/mock"

	"github.com/google/uuid"
)

// TestContext holds the engine wiring and scenario state. Use cases run
// directly against a shared in-memory database and an in-process redis.
type TestContext struct {
	db    *mock.Db
	redis *mock.Redis
	clock *mock.Clock

	entryRepo  adapter.EntryRepository
	ruleRepo   adapter.RuleRepository
	budgetRepo adapter.BudgetRepository
	cache      adapter.SnapshotCache

	createEntry   *entryusecase.CreateEntryUseCase
	createRule    *recurrence.CreateRuleUseCase
	tick          *recurrence.TickUseCase
	getSummary    *statistics.GetSummaryUseCase
	evaluateOwner *budgetusecase.EvaluateOwnerUseCase

	notifier    *notification.MockAlertNotifier
	alertWorker *notification.Worker

	// Scenario state
	ownerID  uuid.UUID
	rules    map[string]*entity.RecurringRule
	budgets  map[string]*entity.Budget
	lastTick *recurrence.TickOutput
	lastErr  error
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// newTestContext wires the engine over the shared mocks and resets their
// state so every scenario starts from an empty ledger and a cold cache.
func newTestContext() (*TestContext, error) {
	db := mock.NewDb()
	if err := db.Reset(); err != nil {
		return nil, err
	}
	redisMock := mock.NewRedis()
	redisMock.Reset()

	entryRepo := persistence.NewEntryRepository(db.DbConn)
	ruleRepo := persistence.NewRuleRepository(db.DbConn)
	budgetRepo := persistence.NewBudgetRepository(db.DbConn)
	snapshotCache := cache.NewRedisSnapshotCache(redisMock.Client, time.Hour)

	invalidator := statistics.NewInvalidator(snapshotCache)
	evaluateBudget := budgetusecase.NewEvaluateBudgetUseCase(budgetRepo, entryRepo)
	evaluateOwner := budgetusecase.NewEvaluateOwnerUseCase(budgetRepo, evaluateBudget)

	notifier := notification.NewMockAlertNotifier()

	return &TestContext{
		db:            db,
		redis:         redisMock,
		clock:         mock.NewClock(),
		entryRepo:     entryRepo,
		ruleRepo:      ruleRepo,
		budgetRepo:    budgetRepo,
		cache:         snapshotCache,
		createEntry:   entryusecase.NewCreateEntryUseCase(entryRepo, invalidator, evaluateOwner),
		createRule:    recurrence.NewCreateRuleUseCase(ruleRepo),
		tick:          recurrence.NewTickUseCase(ruleRepo, entryRepo, invalidator, evaluateOwner, recurrence.DefaultCatchUpCap),
		getSummary:    statistics.NewGetSummaryUseCase(entryRepo, snapshotCache),
		evaluateOwner: evaluateOwner,
		notifier:      notifier,
		alertWorker: notification.NewWorker(budgetRepo, notifier, notification.WorkerConfig{
			PollInterval: time.Second,
			BatchSize:    50,
		}),
		ownerID: uuid.New(),
		rules:   make(map[string]*entity.RecurringRule),
		budgets: make(map[string]*entity.Budget),
	}, nil
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		// Warm the shared database so the first scenario does not pay for
		// the migration.
		mock.NewDb()
		mock.NewRedis()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc, err := newTestContext()
		if err != nil {
			return ctx, err
		}
		return SetTestContext(ctx, tc), nil
	})

	registerClockSteps(ctx)
	registerRuleSteps(ctx)
	registerLedgerSteps(ctx)
	registerBudgetSteps(ctx)
	registerStatisticsSteps(ctx)
}
