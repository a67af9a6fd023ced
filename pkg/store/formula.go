package store

import (
	"fmt"
	"strings"
)

// Filter formulas are the store's only query language: boolean predicates over
// field equality and non-emptiness. These builders cover exactly what the
// engine needs and escape values so record IDs and free text can be embedded
// safely.

// Eq builds a field-equality predicate: {Field} = 'value'.
func Eq(field, value string) string {
	return fmt.Sprintf("{%s} = '%s'", field, escapeValue(value))
}

// NotEmpty builds a non-emptiness predicate: {Field} != ''.
func NotEmpty(field string) string {
	return fmt.Sprintf("{%s} != ''", field)
}

// And combines predicates. With fewer than two operands it degenerates to the
// single operand or the empty filter.
func And(predicates ...string) string {
	nonEmpty := make([]string, 0, len(predicates))
	for _, p := range predicates {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return ""
	case 1:
		return nonEmpty[0]
	default:
		return fmt.Sprintf("AND(%s)", strings.Join(nonEmpty, ", "))
	}
}

func escapeValue(value string) string {
	return strings.ReplaceAll(value, "'", "\\'")
}
