package persistence_test

import (
	"errors"
	"testing"
	"time"

	"github.com/readcircle/readcircle-sdk/modules/core/domain/entities/subscription"
	"github.com/readcircle/readcircle-sdk/modules/core/infrastructure/persistence"
	"github.com/readcircle/readcircle-sdk/modules/core/permissions"
	"github.com/readcircle/readcircle-sdk/pkg/itf"
)

func TestSubscriptionRepository_CRUD(t *testing.T) {
	env := itf.Setup(t, persistence.SchemaSQL())
	repo := persistence.NewSubscriptionRepository()

	now := time.Now().UTC()
	created, err := repo.Create(env.Ctx, subscription.New("alice", permissions.TierPrivileged, now.Add(-time.Hour)))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("GetByID", func(t *testing.T) {
		found, err := repo.GetByID(env.Ctx, created.ID())
		if err != nil {
			t.Fatal(err)
		}
		if found.Tier() != permissions.TierPrivileged {
			t.Errorf("expected %s, got %s", permissions.TierPrivileged, found.Tier())
		}
		if found.EndsAt() != nil {
			t.Errorf("expected open-ended subscription, got ends_at %v", found.EndsAt())
		}
	})

	t.Run("ActiveForUser picks the best overlapping tier", func(t *testing.T) {
		if _, err := repo.Create(env.Ctx, subscription.New("alice", permissions.TierPrivilegedPlus, now.Add(-time.Minute))); err != nil {
			t.Fatal(err)
		}
		active, err := repo.ActiveForUser(env.Ctx, "alice", now)
		if err != nil {
			t.Fatal(err)
		}
		if active.Tier() != permissions.TierPrivilegedPlus {
			t.Errorf("expected %s, got %s", permissions.TierPrivilegedPlus, active.Tier())
		}
	})

	t.Run("ActiveForUser ignores closed windows", func(t *testing.T) {
		endedYesterday := now.Add(-24 * time.Hour)
		if _, err := repo.Create(env.Ctx, subscription.New(
			"bob",
			permissions.TierPrivileged,
			now.Add(-48*time.Hour),
			subscription.WithEndsAt(&endedYesterday),
		)); err != nil {
			t.Fatal(err)
		}
		_, err := repo.ActiveForUser(env.Ctx, "bob", now)
		if !errors.Is(err, subscription.ErrSubscriptionNotFound) {
			t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
		}
	})

	t.Run("Cancel closes the window", func(t *testing.T) {
		created.Cancel(now)
		updated, err := repo.Update(env.Ctx, created)
		if err != nil {
			t.Fatal(err)
		}
		if updated.EndsAt() == nil {
			t.Fatal("expected ends_at to be set")
		}
		if _, err := repo.ActiveForUser(env.Ctx, "alice", now.Add(time.Hour)); err != nil {
			// The plus subscription from the subtest above still covers alice.
			t.Fatalf("expected the remaining subscription to stay active, got %v", err)
		}
	})

	t.Run("ListForUser", func(t *testing.T) {
		subscriptions, err := repo.ListForUser(env.Ctx, "alice")
		if err != nil {
			t.Fatal(err)
		}
		if len(subscriptions) != 2 {
			t.Errorf("expected 2 subscriptions, got %d", len(subscriptions))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(env.Ctx, created.ID()); err != nil {
			t.Fatal(err)
		}
		_, err := repo.GetByID(env.Ctx, created.ID())
		if !errors.Is(err, subscription.ErrSubscriptionNotFound) {
			t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
		}
	})
}
