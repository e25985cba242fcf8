// Package dependency provides dependency injection for the application.
package dependency

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/engine/config"
	"github.com/finance-tracker/engine/internal/application/adapter"
	budgetusecase "github.com/finance-tracker/engine/internal/application/usecase/budget"
	entryusecase "github.com/finance-tracker/engine/internal/application/usecase/entry"
	"github.com/finance-tracker/engine/internal/application/usecase/recurrence"
	"github.com/finance-tracker/engine/internal/application/usecase/statistics"
	"github.com/finance-tracker/engine/internal/infra/db"
	"github.com/finance-tracker/engine/internal/infra/scheduler"
	"github.com/finance-tracker/engine/internal/integration/cache"
	"github.com/finance-tracker/engine/internal/integration/notification"
	"github.com/finance-tracker/engine/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB

	EntryRepo  adapter.EntryRepository
	RuleRepo   adapter.RuleRepository
	BudgetRepo adapter.BudgetRepository
	Cache      adapter.SnapshotCache

	CreateEntry  *entryusecase.CreateEntryUseCase
	UpdateEntry  *entryusecase.UpdateEntryUseCase
	DeleteEntry  *entryusecase.DeleteEntryUseCase
	RestoreEntry *entryusecase.RestoreEntryUseCase
	CreateRule   *recurrence.CreateRuleUseCase
	Tick         *recurrence.TickUseCase
	GetSummary   *statistics.GetSummaryUseCase

	Scheduler   *scheduler.Scheduler
	AlertWorker *notification.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, database *db.Database, redisClient *redis.Client) *Injector {
	conn := database.DB()

	// Create repositories and cache
	entryRepo := persistence.NewEntryRepository(conn)
	ruleRepo := persistence.NewRuleRepository(conn)
	budgetRepo := persistence.NewBudgetRepository(conn)
	snapshotCache := cache.NewRedisSnapshotCache(redisClient, cfg.Engine.SnapshotTTL)

	// Create statistics and budget use cases
	invalidator := statistics.NewInvalidator(snapshotCache)
	getSummary := statistics.NewGetSummaryUseCase(entryRepo, snapshotCache)
	evaluateBudget := budgetusecase.NewEvaluateBudgetUseCase(budgetRepo, entryRepo)
	evaluateOwner := budgetusecase.NewEvaluateOwnerUseCase(budgetRepo, evaluateBudget)

	// Create entry use cases
	createEntry := entryusecase.NewCreateEntryUseCase(entryRepo, invalidator, evaluateOwner)
	updateEntry := entryusecase.NewUpdateEntryUseCase(entryRepo, invalidator, evaluateOwner)
	deleteEntry := entryusecase.NewDeleteEntryUseCase(entryRepo, invalidator, evaluateOwner)
	restoreEntry := entryusecase.NewRestoreEntryUseCase(entryRepo, invalidator, evaluateOwner)

	// Create recurrence use cases
	createRule := recurrence.NewCreateRuleUseCase(ruleRepo)
	tick := recurrence.NewTickUseCase(ruleRepo, entryRepo, invalidator, evaluateOwner, cfg.Engine.CatchUpCap)

	// Create background workers
	tickScheduler := scheduler.NewScheduler(tick, scheduler.Config{
		TickInterval: cfg.Engine.TickInterval,
		TickBudget:   cfg.Engine.TickBudget,
		BatchSize:    cfg.Engine.BatchSize,
		StoreHealthy: database.HealthCheck,
	})

	notifier := notification.NewResendNotifier(
		cfg.Notification.ResendAPIKey,
		cfg.Notification.FromName,
		cfg.Notification.FromEmail,
		cfg.Notification.ToEmail,
	)
	alertWorker := notification.NewWorker(budgetRepo, notifier, notification.WorkerConfig{
		PollInterval: cfg.Notification.PollInterval,
		BatchSize:    cfg.Notification.BatchSize,
	})

	return &Injector{
		Config:       cfg,
		DB:           conn,
		EntryRepo:    entryRepo,
		RuleRepo:     ruleRepo,
		BudgetRepo:   budgetRepo,
		Cache:        snapshotCache,
		CreateEntry:  createEntry,
		UpdateEntry:  updateEntry,
		DeleteEntry:  deleteEntry,
		RestoreEntry: restoreEntry,
		CreateRule:   createRule,
		Tick:         tick,
		GetSummary:   getSummary,
		Scheduler:    tickScheduler,
		AlertWorker:  alertWorker,
	}
}
