package gormrepos

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/ratiba/core"
)

// validIDs drops malformed UUIDs; postgres uuid columns reject them.
func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// searchScope matches `column` case-insensitively against `search`, on both postgres and sqlite.
func searchScope(column, search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
		pattern := "%" + r.Replace(strings.ToLower(search)) + "%"
		return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)
	}
}

// orderScope applies `ordering` (or `defaults`) to the query. Columns are "table.column" pairs.
func orderScope(ordering, defaults []core.DBOrdering, columns map[string]string) (func(*gorm.DB) *gorm.DB, error) {
	if len(ordering) == 0 {
		ordering = defaults
	}
	mapped, err := core.MapOrdering(ordering, columns)
	if err != nil {
		return nil, err
	}

	orderBy := clause.OrderBy{}
	for _, ord := range mapped {
		col := clause.Column{Name: ord.Field}
		if table, name, ok := strings.Cut(ord.Field, "."); ok {
			col = clause.Column{Table: table, Name: name}
		}
		orderBy.Columns = append(orderBy.Columns, clause.OrderByColumn{Column: col, Desc: !ord.Ascending})
	}
	return func(db *gorm.DB) *gorm.DB {
		if len(orderBy.Columns) == 0 {
			return db
		}
		return db.Clauses(orderBy)
	}, nil
}
