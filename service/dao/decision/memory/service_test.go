package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/decision/memory"
	"github.com/stretchr/testify/assert"
)

func seed(t *testing.T, svc *memory.Service, id string, status model.Status, createdAt time.Time) {
	t.Helper()
	assert.NoError(t, svc.Save(context.Background(), &model.Decision{
		ID:        id,
		TenantID:  "t1",
		Type:      model.TypeCreateTask,
		Status:    status,
		CreatedAt: createdAt,
	}))
}

func TestService_ListExecutable(t *testing.T) {
	ctx := context.Background()
	svc := memory.New()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	seed(t, svc, "d-oldest", model.StatusApproved, base)
	seed(t, svc, "d-newer", model.StatusApproved, base.Add(time.Minute))
	seed(t, svc, "d-pending", model.StatusPending, base)
	seed(t, svc, "d-rejected", model.StatusRejected, base)

	executable, err := svc.ListExecutable(ctx, "t1", 0)
	assert.NoError(t, err)
	if assert.Len(t, executable, 2) {
		assert.Equal(t, "d-oldest", executable[0].ID)
		assert.Equal(t, "d-newer", executable[1].ID)
	}

	limited, err := svc.ListExecutable(ctx, "t1", 1)
	assert.NoError(t, err)
	assert.Len(t, limited, 1)

	other, err := svc.ListExecutable(ctx, "t2", 0)
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestService_ClaimExclusion(t *testing.T) {
	ctx := context.Background()
	svc := memory.New()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seed(t, svc, "d1", model.StatusApproved, now)

	claimed, err := svc.Claim(ctx, "d1", now)
	assert.NoError(t, err)
	assert.NotNil(t, claimed.ExecutedAt)

	_, err = svc.Claim(ctx, "d1", now)
	assert.ErrorIs(t, err, dao.ErrAlreadyClaimed)

	// A claimed decision leaves the executable listing.
	executable, err := svc.ListExecutable(ctx, "t1", 0)
	assert.NoError(t, err)
	assert.Empty(t, executable)
}

func TestService_ClaimRequiresApproval(t *testing.T) {
	ctx := context.Background()
	svc := memory.New()
	now := time.Now().UTC()
	seed(t, svc, "d1", model.StatusPending, now)

	_, err := svc.Claim(ctx, "d1", now)
	assert.ErrorIs(t, err, dao.ErrAlreadyClaimed)

	_, err = svc.Claim(ctx, "missing", now)
	assert.ErrorIs(t, err, dao.ErrNotFound)
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()
	svc := memory.New()
	now := time.Now().UTC()
	seed(t, svc, "d1", model.StatusPending, now)

	ok, err := svc.Transition(ctx, "d1", model.StatusPending, model.StatusApproved, func(d *model.Decision) {
		d.DecidedBy = "manager-1"
	})
	assert.NoError(t, err)
	assert.True(t, ok)

	stored, _ := svc.Load(ctx, "d1")
	assert.Equal(t, model.StatusApproved, stored.Status)
	assert.Equal(t, "manager-1", stored.DecidedBy)

	// Stale expectations and backward moves both refuse.
	ok, err = svc.Transition(ctx, "d1", model.StatusPending, model.StatusRejected, nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Transition(ctx, "d1", model.StatusApproved, model.StatusPending, nil)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Transition(ctx, "d1", model.StatusApproved, model.StatusExecuted, nil)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Transition(ctx, "d1", model.StatusExecuted, model.StatusFailed, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}
