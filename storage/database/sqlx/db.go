package sqlxrepos

import (
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

// postgres error codes
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

func pqErrCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// validIDs drops malformed UUIDs; postgres would reject the whole statement otherwise.
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

// whereClause accumulates AND-ed conditions written with "?" bindvars.
type whereClause struct {
	conds []string
	args  []interface{}
}

func (w *whereClause) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func orderByClause(ordering, defaults []core.DBOrdering, columns map[string]string) (string, error) {
	if len(ordering) == 0 {
		ordering = defaults
	}
	mapped, err := core.MapOrdering(ordering, columns)
	if err != nil {
		return "", err
	}
	if len(mapped) == 0 {
		return "", nil
	}
	orderList := make([]string, 0, len(mapped))
	for _, ord := range mapped {
		orderList = append(orderList, ord.String())
	}
	return " ORDER BY " + strings.Join(orderList, ", "), nil
}

func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(search) + "%"
}
