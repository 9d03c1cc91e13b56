package crm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/action/crm"
	"github.com/arbiterhq/arbiter/service/dao/domain"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) (*crm.Service, *domain.Stores) {
	t.Helper()
	stores := domain.NewMemoryStores()
	return crm.New(stores), stores
}

func decision(tenantID string) *model.Decision {
	return &model.Decision{ID: "d1", TenantID: tenantID, Status: model.StatusApproved}
}

func TestService_AssignLead(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Contacts.Save(ctx, &model.Contact{
		ID: "c-1", TenantID: "t1", Name: "Acme Lead",
	}))

	exec, err := svc.Handler(model.TypeAssignLead)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &crm.AssignLeadInput{LeadID: "c-1", SalesRepID: "rep-7"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	contact, _ := stores.Contacts.Load(ctx, "c-1")
	assert.Equal(t, "rep-7", contact.AssignedToID)

	result, err = exec(ctx, decision("t1"), &crm.AssignLeadInput{LeadID: "c-1"})
	assert.NoError(t, err)
	assert.Equal(t, "Lead ID and Sales Rep ID required", result.Message)

	result, err = exec(ctx, decision("t2"), &crm.AssignLeadInput{LeadID: "c-1", SalesRepID: "rep-7"})
	assert.NoError(t, err)
	assert.Equal(t, "Lead not found", result.Message)
}

func TestService_ChangePaymentTerms(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Contacts.Save(ctx, &model.Contact{
		ID: "c-1", TenantID: "t1", Notes: strings.Repeat("history ", 80),
	}))

	exec, err := svc.Handler(model.TypeChangePaymentTerms)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &crm.PaymentTermsInput{CustomerID: "c-1", PaymentTerms: "NET45"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	contact, _ := stores.Contacts.Load(ctx, "c-1")
	assert.Equal(t, "NET45", contact.PaymentTerms)
	assert.True(t, strings.HasPrefix(contact.Notes, "Payment Terms: NET45. "))
	assert.LessOrEqual(t, len(contact.Notes), 500)
}

func TestService_UpdateSegment(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Contacts.Save(ctx, &model.Contact{
		ID: "c-1", TenantID: "t1", Tags: []string{"enterprise"},
	}))

	exec, err := svc.Handler(model.TypeCustomerSegmentUpdate)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &crm.SegmentUpdateInput{CustomerID: "c-1", Segment: "enterprise"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	contact, _ := stores.Contacts.Load(ctx, "c-1")
	assert.Equal(t, "enterprise", contact.Segment)
	// Tag already present, no duplicate.
	assert.Equal(t, []string{"enterprise"}, contact.Tags)

	_, err = exec(ctx, decision("t1"), &crm.SegmentUpdateInput{CustomerID: "c-1", Segment: "strategic"})
	assert.NoError(t, err)
	contact, _ = stores.Contacts.Load(ctx, "c-1")
	assert.Equal(t, []string{"enterprise", "strategic"}, contact.Tags)
}

func TestService_UpdateDealStage(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Deals.Save(ctx, &model.Deal{
		ID: "deal-1", TenantID: "t1", Stage: "proposal",
	}))

	exec, err := svc.Handler(model.TypeUpdateDealStage)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &crm.DealStageInput{DealID: "deal-1", Stage: "negotiation"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	deal, _ := stores.Deals.Load(ctx, "deal-1")
	assert.Equal(t, "negotiation", deal.Stage)
	assert.Nil(t, deal.ClosedAt)

	_, err = exec(ctx, decision("t1"), &crm.DealStageInput{DealID: "deal-1", Stage: "won"})
	assert.NoError(t, err)
	deal, _ = stores.Deals.Load(ctx, "deal-1")
	assert.NotNil(t, deal.ClosedAt)
}
