package invoicing_test

import (
	"context"
	"testing"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/action/invoicing"
	"github.com/arbiterhq/arbiter/service/dao/domain"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) (*invoicing.Service, *domain.Stores) {
	t.Helper()
	stores := domain.NewMemoryStores()
	return invoicing.New(stores), stores
}

func decision(tenantID string) *model.Decision {
	return &model.Decision{ID: "d1", TenantID: tenantID, Status: model.StatusApproved}
}

func TestService_SendInvoice(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Invoices.Save(ctx, &model.Invoice{
		ID: "inv-1", TenantID: "t1", Number: "INV-0001", Status: model.InvoiceDraft,
	}))

	exec, err := svc.Handler(model.TypeSendInvoice)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &invoicing.SendInvoiceInput{InvoiceID: "inv-1"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	invoice, _ := stores.Invoices.Load(ctx, "inv-1")
	assert.Equal(t, model.InvoiceSent, invoice.Status)

	// Other tenants cannot see the invoice.
	result, err = exec(ctx, decision("t2"), &invoicing.SendInvoiceInput{InvoiceID: "inv-1"})
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Invoice not found", result.Message)

	result, err = exec(ctx, decision("t1"), &invoicing.SendInvoiceInput{})
	assert.NoError(t, err)
	assert.Equal(t, "Invoice ID required", result.Message)
}

func TestService_ApplyDiscount(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)

	exec, err := svc.Handler(model.TypeApplyDiscount)
	assert.NoError(t, err)

	testCases := []struct {
		description  string
		input        *invoicing.ApplyDiscountInput
		wantDiscount int64
		wantTotal    int64
	}{
		{
			description:  "percentage discount",
			input:        &invoicing.ApplyDiscountInput{InvoiceID: "inv-1", DiscountAmount: 10, DiscountType: "percentage"},
			wantDiscount: 10_000,
			wantTotal:    95_000,
		},
		{
			description:  "absolute discount defaults type",
			input:        &invoicing.ApplyDiscountInput{InvoiceID: "inv-1", DiscountAmount: 25_000},
			wantDiscount: 25_000,
			wantTotal:    80_000,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.NoError(t, stores.Invoices.Save(ctx, &model.Invoice{
				ID: "inv-1", TenantID: "t1", Status: model.InvoiceDraft,
				SubtotalPaise: 100_000, TaxPaise: 5_000, TotalPaise: 105_000,
			}))
			result, err := exec(ctx, decision("t1"), testCase.input)
			assert.NoError(t, err)
			assert.True(t, result.Success)

			invoice, _ := stores.Invoices.Load(ctx, "inv-1")
			assert.Equal(t, testCase.wantDiscount, invoice.DiscountPaise)
			assert.Equal(t, testCase.wantTotal, invoice.TotalPaise)
		})
	}

	result, err := exec(ctx, decision("t1"), &invoicing.ApplyDiscountInput{InvoiceID: "inv-1"})
	assert.NoError(t, err)
	assert.Equal(t, "Invoice ID and discount amount required", result.Message)
}

func TestService_CreatePaymentReminder(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Invoices.Save(ctx, &model.Invoice{
		ID: "inv-1", TenantID: "t1", Number: "INV-0001",
		Status: model.InvoiceOverdue, TotalPaise: 123_45,
	}))

	exec, err := svc.Handler(model.TypeCreatePaymentReminder)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &invoicing.PaymentReminderInput{InvoiceID: "inv-1"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	taskID, _ := result.Data["taskId"].(string)
	assert.NotEmpty(t, taskID)
	created, _ := stores.Tasks.Load(ctx, taskID)
	if assert.NotNil(t, created) {
		assert.Equal(t, "Payment Reminder: INV-0001", created.Title)
		assert.Contains(t, created.Description, "₹123.45")
		assert.Equal(t, "medium", created.Priority)
		assert.NotNil(t, created.DueDate)
	}
}

func TestService_BulkInvoicePayment(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	for _, id := range []string{"inv-1", "inv-2"} {
		assert.NoError(t, stores.Invoices.Save(ctx, &model.Invoice{
			ID: id, TenantID: "t1", Status: model.InvoiceSent,
		}))
	}

	exec, err := svc.Handler(model.TypeBulkInvoicePayment)
	assert.NoError(t, err)

	result, err := exec(ctx, decision("t1"), &invoicing.BulkPaymentInput{
		InvoiceIDs: []string{"inv-1", "inv-2", "inv-missing"},
	})
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "2 invoices marked as paid", result.Message)
	assert.Equal(t, 2, result.Data["count"])

	invoice, _ := stores.Invoices.Load(ctx, "inv-1")
	assert.Equal(t, model.InvoicePaid, invoice.Status)
	assert.NotNil(t, invoice.PaidAt)

	result, err = exec(ctx, decision("t1"), &invoicing.BulkPaymentInput{})
	assert.NoError(t, err)
	assert.Equal(t, "Invoice IDs array required", result.Message)
}

func TestService_UnsendInvoiceRollback(t *testing.T) {
	ctx := context.Background()
	svc, stores := setup(t)
	assert.NoError(t, stores.Invoices.Save(ctx, &model.Invoice{
		ID: "inv-1", TenantID: "t1", Status: model.InvoiceSent,
	}))

	reverse, ok := svc.Reverser(model.TypeSendInvoice)
	assert.True(t, ok)

	result, err := reverse(ctx, decision("t1"), map[string]interface{}{"invoiceId": "inv-1"})
	assert.NoError(t, err)
	assert.True(t, result.Success)

	invoice, _ := stores.Invoices.Load(ctx, "inv-1")
	assert.Equal(t, model.InvoiceDraft, invoice.Status)

	// A second revert refuses, the invoice is no longer sent.
	result, err = reverse(ctx, decision("t1"), map[string]interface{}{"invoiceId": "inv-1"})
	assert.NoError(t, err)
	assert.False(t, result.Success)

	_, ok = svc.Reverser(model.TypeBulkInvoicePayment)
	assert.False(t, ok)
}
