package domain

import (
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/store"
)

// Stores bundles the domain record services decision handlers mutate.  The
// wider application typically supplies database-backed implementations; the
// memory variants below back tests and single-process deployments.
type Stores struct {
	Invoices dao.Service[string, model.Invoice]
	Tasks    dao.Service[string, model.Task]
	Contacts dao.Service[string, model.Contact]
	Deals    dao.Service[string, model.Deal]
}

// NewMemoryStores creates in-memory domain stores.
func NewMemoryStores() *Stores {
	return &Stores{
		Invoices: store.NewMemoryStore[string, model.Invoice](func(v *model.Invoice) string { return v.ID }),
		Tasks:    store.NewMemoryStore[string, model.Task](func(v *model.Task) string { return v.ID }),
		Contacts: store.NewMemoryStore[string, model.Contact](func(v *model.Contact) string { return v.ID }),
		Deals:    store.NewMemoryStore[string, model.Deal](func(v *model.Deal) string { return v.ID }),
	}
}
