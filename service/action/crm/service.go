package crm

import (
	"context"
	"fmt"
	"reflect"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/arbiterhq/arbiter/service/dao/domain"
)

const name = "crm"

// notesLimit caps the contact notes length after prepending payment terms.
const notesLimit = 500

// Service executes CRM decisions against contacts and deals.
type Service struct {
	stores *domain.Stores
}

var _ types.Service = (*Service)(nil)

// AssignLeadInput routes a lead to a sales rep.
type AssignLeadInput struct {
	LeadID     string `json:"leadId"`
	SalesRepID string `json:"salesRepId"`
}

// PaymentTermsInput updates a customer's payment terms.
type PaymentTermsInput struct {
	CustomerID   string `json:"customerId"`
	PaymentTerms string `json:"paymentTerms"`
}

// SegmentUpdateInput re-segments a customer.
type SegmentUpdateInput struct {
	CustomerID string `json:"customerId"`
	Segment    string `json:"segment"`
}

// DealStageInput moves a deal through the pipeline.
type DealStageInput struct {
	DealID string `json:"dealId"`
	Stage  string `json:"stage"`
}

// New creates the CRM handler service.
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
		{Type: model.TypeAssignLead, Input: reflect.TypeOf(&AssignLeadInput{})},
		{Type: model.TypeChangePaymentTerms, Input: reflect.TypeOf(&PaymentTermsInput{})},
		{Type: model.TypeCustomerSegmentUpdate, Input: reflect.TypeOf(&SegmentUpdateInput{})},
		{Type: model.TypeUpdateDealStage, Input: reflect.TypeOf(&DealStageInput{})},
	}
}

// Handler returns the executable for the given decision type.
func (s *Service) Handler(t model.DecisionType) (types.Executable, error) {
	switch t {
	case model.TypeAssignLead:
		return s.assignLead, nil
	case model.TypeChangePaymentTerms:
		return s.changePaymentTerms, nil
	case model.TypeCustomerSegmentUpdate:
		return s.updateSegment, nil
	case model.TypeUpdateDealStage:
		return s.updateDealStage, nil
	default:
		return nil, types.NewHandlerNotFoundError(t)
	}
}

func (s *Service) assignLead(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*AssignLeadInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.LeadID == "" || input.SalesRepID == "" {
		return failure("Lead ID and Sales Rep ID required"), nil
	}
	contact, err := s.loadContact(ctx, decision.TenantID, input.LeadID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return failure("Lead not found"), nil
	}
	contact.AssignedToID = input.SalesRepID
	if err := s.stores.Contacts.Save(ctx, contact); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Lead assigned successfully",
		Data: map[string]interface{}{
			"leadId":     input.LeadID,
			"salesRepId": input.SalesRepID,
		},
	}, nil
}

func (s *Service) changePaymentTerms(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*PaymentTermsInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.CustomerID == "" || input.PaymentTerms == "" {
		return failure("Customer ID and payment terms required"), nil
	}
	contact, err := s.loadContact(ctx, decision.TenantID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return failure("Customer not found"), nil
	}
	contact.PaymentTerms = input.PaymentTerms
	notes := fmt.Sprintf("Payment Terms: %v. %v", input.PaymentTerms, contact.Notes)
	if len(notes) > notesLimit {
		notes = notes[:notesLimit]
	}
	contact.Notes = notes
	if err := s.stores.Contacts.Save(ctx, contact); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Payment terms updated",
		Data: map[string]interface{}{
			"customerId":   input.CustomerID,
			"paymentTerms": input.PaymentTerms,
		},
	}, nil
}

func (s *Service) updateSegment(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*SegmentUpdateInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.CustomerID == "" || input.Segment == "" {
		return failure("Customer ID and segment required"), nil
	}
	contact, err := s.loadContact(ctx, decision.TenantID, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return failure("Customer not found"), nil
	}
	contact.Segment = input.Segment
	contact.Tags = appendUnique(contact.Tags, input.Segment)
	if err := s.stores.Contacts.Save(ctx, contact); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Customer segment updated",
		Data: map[string]interface{}{
			"customerId": input.CustomerID,
			"segment":    input.Segment,
		},
	}, nil
}

func (s *Service) updateDealStage(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*DealStageInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.DealID == "" || input.Stage == "" {
		return failure("Deal ID and stage required"), nil
	}
	deal, err := s.stores.Deals.Load(ctx, input.DealID)
	if err != nil {
		return nil, err
	}
	if deal == nil || deal.TenantID != decision.TenantID {
		return failure("Deal not found"), nil
	}
	deal.Stage = input.Stage
	if input.Stage == "won" || input.Stage == "lost" {
		now := clock.NowUTC()
		deal.ClosedAt = &now
	}
	if err := s.stores.Deals.Save(ctx, deal); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Deal stage updated",
		Data: map[string]interface{}{
			"dealId": input.DealID,
			"stage":  input.Stage,
		},
	}, nil
}

// loadContact returns the contact only when it belongs to the tenant.
func (s *Service) loadContact(ctx context.Context, tenantID, id string) (*model.Contact, error) {
	contact, err := s.stores.Contacts.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.TenantID != tenantID {
		return nil, nil
	}
	return contact, nil
}

func appendUnique(tags []string, tag string) []string {
	for _, candidate := range tags {
		if candidate == tag {
			return tags
		}
	}
	return append(tags, tag)
}

func failure(message string) *model.Result {
	return &model.Result{Success: false, Message: message}
}
