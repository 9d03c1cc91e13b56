package model

import "time"

// Domain records mutated by decision handlers.  The engine treats these as a
// persistence collaborator offering plain CRUD; the wider application owns
// their full schema; only the fields the handlers touch are modelled here.
// All monetary fields are integer minor units (paise).

// InvoiceStatus enumerates the invoice states the handlers transition.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "DRAFT"
	InvoiceSent    InvoiceStatus = "SENT"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// Invoice is a billing document owned by a tenant.
type Invoice struct {
	ID            string        `json:"id"`
	TenantID      string        `json:"tenantId"`
	CustomerID    string        `json:"customerId,omitempty"`
	Number        string        `json:"number"`
	Status        InvoiceStatus `json:"status"`
	SubtotalPaise int64         `json:"subtotalPaise"`
	TaxPaise      int64         `json:"taxPaise"`
	DiscountPaise int64         `json:"discountPaise"`
	DiscountType  string        `json:"discountType,omitempty"` // amount | percentage
	TotalPaise    int64         `json:"totalPaise"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

// Task is a work item created or assigned by decision handlers.
type Task struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenantId"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedToID string     `json:"assignedToId,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Contact is a CRM lead or customer record.
type Contact struct {
	ID           string   `json:"id"`
	TenantID     string   `json:"tenantId"`
	Name         string   `json:"name"`
	AssignedToID string   `json:"assignedToId,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Segment      string   `json:"segment,omitempty"`
	PaymentTerms string   `json:"paymentTerms,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

// Deal is a sales opportunity; moving it to won/lost stamps ClosedAt.
type Deal struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenantId"`
	Name       string     `json:"name"`
	Stage      string     `json:"stage"`
	ValuePaise int64      `json:"valuePaise"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
}
