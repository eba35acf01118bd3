package query

import (
	"strings"

	"github.com/Itish41/portfolio-cms/apperror"
)

// SortKey orders by one storage field.
type SortKey struct {
	Field string
	Desc  bool
}

func Asc(field string) SortKey  { return SortKey{Field: field} }
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// ParseSort turns "key:dir" tokens into sort keys, applied in the given order.
// allowed maps API keys to storage fields; unknown keys are a validation error.
// A missing direction sorts ascending; any direction other than "asc" sorts
// descending.
func ParseSort(tokens []string, allowed map[string]string) ([]SortKey, error) {
	keys := make([]SortKey, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		name, dir, _ := strings.Cut(token, ":")
		field, ok := allowed[name]
		if !ok {
			return nil, apperror.Validation("unsupported sort key %q", name)
		}
		keys = append(keys, SortKey{Field: field, Desc: dir != "" && !strings.EqualFold(dir, "asc")})
	}
	return keys, nil
}
