package tabular

// This file holds the client-facing half of the package: Change/Apply keep a
// cached row list in sync after a mutation without a refetch, and Column
// describes how to render a table of T. The HTTP handlers work against Engine
// directly; these types are for callers that drive the engine declaratively,
// such as an interactive UI.

// ChangeKind describes a local list mutation.
type ChangeKind int

const (
	Insert ChangeKind = iota
	Replace
	Remove
)

// Change describes one mutation to apply to a cached list: Insert prepends
// Row, Replace swaps the element whose id matches in place, Remove filters it
// out.
type Change[T any] struct {
	Kind ChangeKind
	ID   string
	Row  T
}

// Apply returns a new list with the change applied. The input list is never
// mutated, so callers can keep the old slice for comparison. idOf extracts a
// row's identifier.
func Apply[T any](list []T, change Change[T], idOf func(T) string) []T {
	switch change.Kind {
	case Insert:
		out := make([]T, 0, len(list)+1)
		out = append(out, change.Row)
		return append(out, list...)
	case Replace:
		out := make([]T, len(list))
		for i, row := range list {
			if idOf(row) == change.ID {
				out[i] = change.Row
			} else {
				out[i] = row
			}
		}
		return out
	case Remove:
		out := make([]T, 0, len(list))
		for _, row := range list {
			if idOf(row) != change.ID {
				out = append(out, row)
			}
		}
		return out
	}
	return list
}

// Column is a declarative column descriptor for rendering a table of T. The
// engine stays generic; presentation lives entirely in the descriptor.
type Column[T any] struct {
	Header   string
	Field    string
	Sortable bool

	// Render formats the field value for display. When nil the value's
	// canonical string form is used.
	Render func(value any, row T) string
}

// Cell renders the column's value for a row using the given accessor set.
func (c Column[T]) Cell(fields map[string]FieldFunc[T], row T) string {
	var value any
	if f, ok := fields[c.Field]; ok {
		value = f(row)
	}
	if c.Render != nil {
		return c.Render(value, row)
	}
	return stringify(value)
}
