package criteria

import (
	"github.com/arbiterhq/arbiter/service/dao"
)

// Matches evaluates a single string field against a parameter value that may
// be a scalar or a list.  An empty filter value matches everything.
func Matches(actual string, value interface{}) bool {
	switch v := value.(type) {
	case string:
		return v == "" || actual == v
	case []string:
		if len(v) == 0 {
			return true
		}
		for _, s := range v {
			if actual == s {
				return true
			}
		}
		return false
	}
	return true
}

// Filter extracts the named parameter's value, returning ok=false when the
// parameter is absent.
func Filter(name string, parameters []*dao.Parameter) (interface{}, bool) {
	for _, p := range parameters {
		if p != nil && p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Limit returns the Limit parameter value, or 0 when unset/invalid.
func Limit(parameters []*dao.Parameter) int {
	v, ok := Filter(dao.ParamLimit, parameters)
	if !ok {
		return 0
	}
	if n, ok := v.(int); ok && n > 0 {
		return n
	}
	return 0
}
