package dao

// Parameter is a name/value list filter understood by DAO List
// implementations.  Unknown names are ignored so that stores can evolve
// independently of their callers.
type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Well-known filter names shared by the engine stores.
const (
	ParamTenantID   = "TenantID"
	ParamStatus     = "Status"
	ParamType       = "Type"
	ParamUnexecuted = "Unexecuted"
	ParamLimit      = "Limit"
)

// WithLimit builds a Limit parameter.
func WithLimit(limit int) *Parameter {
	return &Parameter{Name: ParamLimit, Value: limit}
}
