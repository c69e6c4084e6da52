package core

import (
	"strings"

	"github.com/pkg/errors"
)

var errInvalidOrdering = errors.New("invalid ordering")

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrdering parses a comma-separated list of fields; a leading "-" means descending. eg. "name,-id"
func ParseOrdering(s string) []DBOrdering {
	var orderings []DBOrdering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		orderings = append(orderings, DBOrdering{Field: field, Ascending: !descending})
	}
	return orderings
}

// MapOrdering translates public ordering fields into storage columns using `columns`.
// Unknown fields are reported as a ValidationError on "ordering".
func MapOrdering(ordering []DBOrdering, columns map[string]string) ([]DBOrdering, error) {
	mapped := make([]DBOrdering, 0, len(ordering))
	for _, ord := range ordering {
		col, ok := columns[ord.Field]
		if !ok {
			return nil, NewValidationError(
				errInvalidOrdering,
				FieldError{Field: "ordering", Error: "cannot order by " + `"` + ord.Field + `"`},
			)
		}
		mapped = append(mapped, DBOrdering{Field: col, Ascending: ord.Ascending})
	}
	return mapped, nil
}
