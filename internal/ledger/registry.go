package ledger

import (
	"strings"

	"ledger/internal/core"
)

// protectedKeys can never be removed from the registry; "other" is the
// catch-all and the rest keep the stock breakdown usable.
var protectedKeys = map[string]struct{}{
	"food":      {},
	"transport": {},
	"utilities": {},
	"other":     {},
}

// DefaultCategories is the registry seed used when the backend has nothing
// persisted yet.
func DefaultCategories() []core.Category {
	return []core.Category{
		{Key: "food", Name: "Food & Dining"},
		{Key: "transport", Name: "Transportation"},
		{Key: "utilities", Name: "Utilities"},
		{Key: "entertainment", Name: "Entertainment"},
		{Key: "healthcare", Name: "Healthcare"},
		{Key: "shopping", Name: "Shopping"},
		{Key: "education", Name: "Education"},
		{Key: "other", Name: "Other"},
	}
}

// categoryRegistry keeps key->display-name pairs in insertion order.
type categoryRegistry struct {
	order []string
	names map[string]string
}

func newCategoryRegistry(seed []core.Category) *categoryRegistry {
	r := &categoryRegistry{names: make(map[string]string, len(seed))}
	for _, c := range seed {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			continue
		}
		if _, ok := r.names[key]; ok {
			continue
		}
		r.order = append(r.order, key)
		r.names[key] = c.Name
	}
	return r
}

func (r *categoryRegistry) has(key string) bool {
	_, ok := r.names[key]
	return ok
}

func (r *categoryRegistry) list() []core.Category {
	out := make([]core.Category, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, core.Category{Key: key, Name: r.names[key]})
	}
	return out
}

func (r *categoryRegistry) add(key, name string) error {
	if key == "" {
		return &core.ValidationError{Field: "category", Value: name, Reason: "name must contain at least one letter or digit"}
	}
	if _, ok := r.names[key]; ok {
		return &core.ValidationError{Field: "category", Value: key, Reason: "key already exists"}
	}
	for _, existing := range r.names {
		if strings.EqualFold(existing, name) {
			return &core.ValidationError{Field: "category", Value: name, Reason: "display name already exists"}
		}
	}
	r.order = append(r.order, key)
	r.names[key] = name
	return nil
}

func (r *categoryRegistry) remove(key string) {
	delete(r.names, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
