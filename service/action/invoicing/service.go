package invoicing

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/internal/idgen"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/arbiterhq/arbiter/service/dao/domain"
)

const name = "invoicing"

// reminderDueAfter is how far in the future a payment reminder task is due.
const reminderDueAfter = 24 * time.Hour

// Service executes invoice-related decisions.
type Service struct {
	stores *domain.Stores
}

var (
	_ types.Service  = (*Service)(nil)
	_ types.Reverser = (*Service)(nil)
)

// SendInvoiceInput identifies the invoice to dispatch.
type SendInvoiceInput struct {
	InvoiceID string `json:"invoiceId"`
}

// ApplyDiscountInput carries the discount to apply.  DiscountAmount is a
// percentage when DiscountType is "percentage", otherwise an absolute amount
// in paise.
type ApplyDiscountInput struct {
	InvoiceID      string  `json:"invoiceId"`
	DiscountAmount float64 `json:"discountAmount"`
	DiscountType   string  `json:"discountType"`
}

// PaymentReminderInput identifies the invoice to chase.
type PaymentReminderInput struct {
	InvoiceID string `json:"invoiceId"`
}

// BulkPaymentInput lists the invoices to mark as paid.
type BulkPaymentInput struct {
	InvoiceIDs []string `json:"invoiceIds"`
}

// New creates the invoicing handler service.
func New(stores *domain.Stores) *Service {
	return &Service{stores: stores}
}

// Name returns the service name.
func (s *Service) Name() string {
	return name
}

// Handlers returns the decision types this service executes.
func (s *Service) Handlers() types.Signatures {
	return []types.Signature{
		{Type: model.TypeSendInvoice, Input: reflect.TypeOf(&SendInvoiceInput{})},
		{Type: model.TypeApplyDiscount, Input: reflect.TypeOf(&ApplyDiscountInput{})},
		{Type: model.TypeCreatePaymentReminder, Input: reflect.TypeOf(&PaymentReminderInput{})},
		{Type: model.TypeBulkInvoicePayment, Input: reflect.TypeOf(&BulkPaymentInput{})},
	}
}

// Handler returns the executable for the given decision type.
func (s *Service) Handler(t model.DecisionType) (types.Executable, error) {
	switch t {
	case model.TypeSendInvoice:
		return s.sendInvoice, nil
	case model.TypeApplyDiscount:
		return s.applyDiscount, nil
	case model.TypeCreatePaymentReminder:
		return s.createPaymentReminder, nil
	case model.TypeBulkInvoicePayment:
		return s.bulkInvoicePayment, nil
	default:
		return nil, types.NewHandlerNotFoundError(t)
	}
}

// Reverser returns the compensation for previously executed decisions.  Only
// send_invoice is reversible here; a paid invoice stays paid.
func (s *Service) Reverser(t model.DecisionType) (types.Executable, bool) {
	if t == model.TypeSendInvoice {
		return s.unsendInvoice, true
	}
	return nil, false
}

func (s *Service) sendInvoice(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*SendInvoiceInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.InvoiceID == "" {
		return failure("Invoice ID required"), nil
	}
	invoice, err := s.loadInvoice(ctx, decision.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return failure("Invoice not found"), nil
	}
	invoice.Status = model.InvoiceSent
	if err := s.stores.Invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Invoice sent successfully",
		Data:    map[string]interface{}{"invoiceId": input.InvoiceID},
	}, nil
}

func (s *Service) unsendInvoice(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	invoiceID := stringValue(in, "invoiceId")
	if invoiceID == "" {
		return failure("Invoice ID required"), nil
	}
	invoice, err := s.loadInvoice(ctx, decision.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return failure("Invoice not found"), nil
	}
	if invoice.Status != model.InvoiceSent {
		return failure(fmt.Sprintf("invoice %v is %v, cannot revert to draft", invoiceID, invoice.Status)), nil
	}
	invoice.Status = model.InvoiceDraft
	if err := s.stores.Invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Invoice reverted to draft",
		Data:    map[string]interface{}{"invoiceId": invoiceID},
	}, nil
}

func (s *Service) applyDiscount(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*ApplyDiscountInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.InvoiceID == "" || input.DiscountAmount == 0 {
		return failure("Invoice ID and discount amount required"), nil
	}
	invoice, err := s.loadInvoice(ctx, decision.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return failure("Invoice not found"), nil
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = "amount"
	}
	var discountPaise int64
	if discountType == "percentage" {
		discountPaise = int64(float64(invoice.SubtotalPaise) * input.DiscountAmount / 100)
	} else {
		discountPaise = int64(input.DiscountAmount)
	}

	invoice.DiscountPaise = discountPaise
	invoice.DiscountType = discountType
	invoice.TotalPaise = invoice.SubtotalPaise - discountPaise + invoice.TaxPaise
	if err := s.stores.Invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Discount applied successfully",
		Data: map[string]interface{}{
			"invoiceId":     input.InvoiceID,
			"discountPaise": discountPaise,
		},
	}, nil
}

func (s *Service) createPaymentReminder(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*PaymentReminderInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.InvoiceID == "" {
		return failure("Invoice ID required"), nil
	}
	invoice, err := s.loadInvoice(ctx, decision.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return failure("Invoice not found"), nil
	}

	now := clock.NowUTC()
	due := now.Add(reminderDueAfter)
	task := &model.Task{
		ID:          idgen.New(),
		TenantID:    decision.TenantID,
		Title:       fmt.Sprintf("Payment Reminder: %v", invoice.Number),
		Description: fmt.Sprintf("Follow up on payment for invoice %v (%v)", invoice.Number, formatPaise(invoice.TotalPaise)),
		Status:      "pending",
		Priority:    "medium",
		DueDate:     &due,
		CreatedAt:   now,
	}
	if err := s.stores.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Payment reminder created",
		Data: map[string]interface{}{
			"invoiceId": input.InvoiceID,
			"taskId":    task.ID,
		},
	}, nil
}

func (s *Service) bulkInvoicePayment(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*BulkPaymentInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if len(input.InvoiceIDs) == 0 {
		return failure("Invoice IDs array required"), nil
	}

	now := clock.NowUTC()
	count := 0
	for _, id := range input.InvoiceIDs {
		invoice, err := s.loadInvoice(ctx, decision.TenantID, id)
		if err != nil {
			return nil, err
		}
		if invoice == nil {
			continue
		}
		invoice.Status = model.InvoicePaid
		invoice.PaidAt = &now
		if err := s.stores.Invoices.Save(ctx, invoice); err != nil {
			return nil, err
		}
		count++
	}
	return &model.Result{
		Success: true,
		Message: fmt.Sprintf("%d invoices marked as paid", count),
		Data: map[string]interface{}{
			"invoiceIds": input.InvoiceIDs,
			"count":      count,
		},
	}, nil
}

// loadInvoice returns the invoice only when it belongs to the tenant.
func (s *Service) loadInvoice(ctx context.Context, tenantID, id string) (*model.Invoice, error) {
	invoice, err := s.stores.Invoices.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil || invoice.TenantID != tenantID {
		return nil, nil
	}
	return invoice, nil
}

func failure(message string) *model.Result {
	return &model.Result{Success: false, Message: message}
}

// formatPaise renders an integer paise amount as rupees.
func formatPaise(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}

// stringValue extracts a string field from loosely typed rollback input.
func stringValue(in interface{}, key string) string {
	switch actual := in.(type) {
	case map[string]interface{}:
		if v, ok := actual[key].(string); ok {
			return v
		}
	case *SendInvoiceInput:
		return actual.InvoiceID
	}
	return ""
}
