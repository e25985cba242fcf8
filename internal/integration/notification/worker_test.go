package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
)

type stubBudgetRepo struct {
	alerts    []*entity.BudgetAlert
	delivered map[uuid.UUID]bool
	listErr   error
}

func newStubBudgetRepo() *stubBudgetRepo {
	return &stubBudgetRepo{delivered: make(map[uuid.UUID]bool)}
}

func (r *stubBudgetRepo) Create(ctx context.Context, budget *entity.Budget) error {
	return nil
}

func (r *stubBudgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	return nil, nil
}

func (r *stubBudgetRepo) ListActive(ctx context.Context, ownerID uuid.UUID) ([]*entity.Budget, error) {
	return nil, nil
}

func (r *stubBudgetRepo) RecordAlert(ctx context.Context, alert *entity.BudgetAlert) error {
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *stubBudgetRepo) HasAlertForWindow(ctx context.Context, budgetID uuid.UUID, kind entity.AlertKind, windowStart time.Time) (bool, error) {
	return false, nil
}

func (r *stubBudgetRepo) ListUndeliveredAlerts(ctx context.Context, limit int) ([]*entity.BudgetAlert, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var pending []*entity.BudgetAlert
	for _, a := range r.alerts {
		if r.delivered[a.ID] {
			continue
		}
		pending = append(pending, a)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *stubBudgetRepo) MarkAlertDelivered(ctx context.Context, alertID uuid.UUID, at time.Time) error {
	r.delivered[alertID] = true
	return nil
}

var _ adapter.BudgetRepository = (*stubBudgetRepo)(nil)

func pendingAlert(kind entity.AlertKind) *entity.BudgetAlert {
	return entity.NewBudgetAlert(
		uuid.New(),
		uuid.New(),
		kind,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(85),
		time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
	)
}

func TestWorker_ProcessNow(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers pending alerts and marks them delivered", func(t *testing.T) {
		repo := newStubBudgetRepo()
		repo.alerts = append(repo.alerts, pendingAlert(entity.AlertKindThreshold), pendingAlert(entity.AlertKindOverrun))
		notifier := NewMockAlertNotifier()
		worker := NewWorker(repo, notifier, DefaultWorkerConfig())

		if err := worker.ProcessNow(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(notifier.SentAlerts) != 2 {
			t.Errorf("expected 2 sent alerts, got %d", len(notifier.SentAlerts))
		}
		for _, a := range repo.alerts {
			if !repo.delivered[a.ID] {
				t.Errorf("expected alert %s to be marked delivered", a.ID)
			}
		}
	})

	t.Run("processing again delivers nothing new", func(t *testing.T) {
		repo := newStubBudgetRepo()
		repo.alerts = append(repo.alerts, pendingAlert(entity.AlertKindThreshold))
		notifier := NewMockAlertNotifier()
		worker := NewWorker(repo, notifier, DefaultWorkerConfig())

		if err := worker.ProcessNow(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := worker.ProcessNow(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(notifier.SentAlerts) != 1 {
			t.Errorf("expected 1 sent alert, got %d", len(notifier.SentAlerts))
		}
	})

	t.Run("a failed send leaves the alert queued for the next poll", func(t *testing.T) {
		repo := newStubBudgetRepo()
		alert := pendingAlert(entity.AlertKindThreshold)
		repo.alerts = append(repo.alerts, alert)
		notifier := NewMockAlertNotifier()
		notifier.FailError = errors.New("smtp down")
		worker := NewWorker(repo, notifier, DefaultWorkerConfig())

		if err := worker.ProcessNow(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if repo.delivered[alert.ID] {
			t.Error("expected alert to stay undelivered after a failed send")
		}

		notifier.FailError = nil
		if err := worker.ProcessNow(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !repo.delivered[alert.ID] {
			t.Error("expected alert to be delivered on retry")
		}
	})

	t.Run("a queue read failure is surfaced", func(t *testing.T) {
		repo := newStubBudgetRepo()
		repo.listErr = errors.New("connection refused")
		worker := NewWorker(repo, NewMockAlertNotifier(), DefaultWorkerConfig())

		if err := worker.ProcessNow(ctx); !errors.Is(err, repo.listErr) {
			t.Fatalf("expected the list error, got %v", err)
		}
	})
}
