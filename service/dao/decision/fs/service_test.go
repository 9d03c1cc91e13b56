package fs_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/decision/fs"
	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
)

func newService(t *testing.T) *fs.Service {
	t.Helper()
	baseURL := fmt.Sprintf("mem://localhost/decisions/%v", t.Name())
	return fs.New(afs.New(), baseURL)
}

func TestService_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	d := &model.Decision{
		ID:            "d1",
		TenantID:      "t1",
		Type:          model.TypeSendInvoice,
		Status:        model.StatusPending,
		RiskScore:     15,
		ApprovalLevel: model.AuditLog,
		Metadata:      map[string]interface{}{"invoiceId": "inv-1"},
		CreatedAt:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, svc.Save(ctx, d))

	loaded, err := svc.Load(ctx, "d1")
	assert.NoError(t, err)
	if assert.NotNil(t, loaded) {
		assert.Equal(t, d.TenantID, loaded.TenantID)
		assert.Equal(t, d.Type, loaded.Type)
		assert.Equal(t, "inv-1", loaded.Metadata["invoiceId"])
	}

	missing, err := svc.Load(ctx, "absent")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestService_ListExecutableAndClaim(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i, status := range []model.Status{model.StatusApproved, model.StatusApproved, model.StatusPending} {
		assert.NoError(t, svc.Save(ctx, &model.Decision{
			ID:        fmt.Sprintf("d-%d", i),
			TenantID:  "t1",
			Type:      model.TypeCreateTask,
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	executable, err := svc.ListExecutable(ctx, "t1", 0)
	assert.NoError(t, err)
	if assert.Len(t, executable, 2) {
		assert.Equal(t, "d-0", executable[0].ID)
	}

	claimed, err := svc.Claim(ctx, "d-0", base.Add(time.Hour))
	assert.NoError(t, err)
	assert.NotNil(t, claimed.ExecutedAt)

	_, err = svc.Claim(ctx, "d-0", base.Add(time.Hour))
	assert.ErrorIs(t, err, dao.ErrAlreadyClaimed)

	executable, err = svc.ListExecutable(ctx, "t1", 0)
	assert.NoError(t, err)
	assert.Len(t, executable, 1)
}

func TestService_Transition(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	assert.NoError(t, svc.Save(ctx, &model.Decision{
		ID:        "d1",
		TenantID:  "t1",
		Type:      model.TypeAssignLead,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
	}))

	ok, err := svc.Transition(ctx, "d1", model.StatusPending, model.StatusApproved, func(d *model.Decision) {
		d.DecidedBy = "manager-1"
	})
	assert.NoError(t, err)
	assert.True(t, ok)

	stored, _ := svc.Load(ctx, "d1")
	assert.Equal(t, model.StatusApproved, stored.Status)
	assert.Equal(t, "manager-1", stored.DecidedBy)

	ok, err = svc.Transition(ctx, "d1", model.StatusPending, model.StatusRejected, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}
