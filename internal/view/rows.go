package view

// Build projects entities into row records, keeping their order. It always
// returns a new slice so callers can rebuild rows whenever the source
// changes.
func Build[T, R any](entities []T, project func(T) R) []R {
	rows := make([]R, len(entities))
	for i, e := range entities {
		rows[i] = project(e)
	}
	return rows
}

// Lookup resolves a display label from a side table, such as a role name
// by role id. A missing key resolves to the fallback label.
type Lookup[K comparable] struct {
	labels   map[K]string
	fallback string
}

// NewLookup indexes items by key. Later items win on duplicate keys.
func NewLookup[K comparable, T any](items []T, key func(T) K, label func(T) string, fallback string) Lookup[K] {
	labels := make(map[K]string, len(items))
	for _, it := range items {
		labels[key(it)] = label(it)
	}
	return Lookup[K]{labels: labels, fallback: fallback}
}

// Resolve returns the label for k, or the fallback.
func (l Lookup[K]) Resolve(k K) string {
	if v, ok := l.labels[k]; ok {
		return v
	}
	return l.fallback
}

// Has reports whether k is known.
func (l Lookup[K]) Has(k K) bool {
	_, ok := l.labels[k]
	return ok
}
