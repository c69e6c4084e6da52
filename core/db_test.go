package core

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseOrdering(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want []DBOrdering
	}{
		{name: "empty", s: "", want: nil},
		{name: "single", s: "name", want: []DBOrdering{{Field: "name", Ascending: true}}},
		{
			name: "multiple with spaces",
			s:    " -subject , full_name,",
			want: []DBOrdering{{Field: "subject", Ascending: false}, {Field: "full_name", Ascending: true}},
		},
		{name: "lone dash", s: "-", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrdering(tt.s))
		})
	}
}

func TestDBOrdering_String(t *testing.T) {
	assert.Equal(t, "name ASC", DBOrdering{Field: "name", Ascending: true}.String())
	assert.Equal(t, "s.name DESC", DBOrdering{Field: "s.name"}.String())
}

func TestMapOrdering(t *testing.T) {
	columns := map[string]string{"id": "t.id", "subject": "s.name"}

	got, err := MapOrdering(ParseOrdering("-subject,id"), columns)
	assert.NoError(t, err)
	assert.Equal(t, []DBOrdering{{Field: "s.name"}, {Field: "t.id", Ascending: true}}, got)

	_, err = MapOrdering(ParseOrdering("id,lol"), columns)
	var valErr *ValidationError
	if assert.True(t, errors.As(err, &valErr)) {
		assert.ErrorIs(t, err, errInvalidOrdering)
		assert.Equal(t, []FieldError{{Field: "ordering", Error: `cannot order by "lol"`}}, valErr.Fields)
	}
}
