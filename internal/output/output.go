// Package output emits the enriched pool collection of a run.
package output

// Sink receives the final collection of a run.
type Sink interface {
	Emit(records any) error
}

// Preview returns items[offset:offset+limit], clamped to the slice. A zero limit keeps
// everything after offset.
func Preview[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
