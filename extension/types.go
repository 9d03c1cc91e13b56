package extension

import (
	"reflect"

	"github.com/viant/x"
)

// Types registers the Go structs decision handlers declare as their input so
// that metadata coercion can resolve them by name.
type Types struct {
	x.Registry
}

// Register adds a data type to the registry.
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup returns a data type from the registry.
func (t *Types) Lookup(name string) *x.Type {
	return t.Registry.Lookup(name)
}

// TypeName returns the registry key for a handler input type: the package
// path qualified struct name, with any pointer indirection stripped.
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// NewTypes creates a new type registry.
func NewTypes(options ...x.RegistryOption) *Types {
	return &Types{Registry: *x.NewRegistry(options...)}
}
