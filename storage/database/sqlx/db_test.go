package sqlxrepos

import (
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/ratiba/core"
)

func Test_orderByClause(t *testing.T) {
	defaults := []core.DBOrdering{{Field: "full_name", Ascending: true}}
	tests := []struct {
		name     string
		ordering string
		want     string
		wantErr  bool
	}{
		{name: "defaults", want: " ORDER BY t.full_name ASC"},
		{name: "mapped", ordering: "-subject,id", want: " ORDER BY s.name DESC, t.id ASC"},
		{name: "unknown field", ordering: "subject_id; DROP TABLE teachers", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderByClause(core.ParseOrdering(tt.ordering), defaults, teacherOrdering)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_whereClause(t *testing.T) {
	where := &whereClause{}
	assert.Equal(t, "", where.String())

	where.add("t.full_name ILIKE ?", likePattern("50%_off"))
	where.add("t.subject_id = ?", "id")
	assert.Equal(t, " WHERE t.full_name ILIKE ? AND t.subject_id = ?", where.String())
	assert.Equal(t, []interface{}{`%50\%\_off%`, "id"}, where.args)
}

func Test_pqErrCode(t *testing.T) {
	err := errors.Wrap(&pq.Error{Code: uniqueViolation}, "inserting")
	assert.Equal(t, uniqueViolation, pqErrCode(err))
	assert.Equal(t, "", pqErrCode(errors.New("lol")))
}

func Test_validIDs(t *testing.T) {
	id := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	assert.Equal(t, []string{id}, validIDs([]string{"lol", id, ""}))
}
