package schoolclass_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/testutil"
)

func setup() (*schoolclass.Service, schoolclass.Repository) {
	repo := inmemdb.NewClassRepository(inmemdb.Open())
	return schoolclass.NewService(repo, core.NewValidator(core.NewTranslator())), repo
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	tests := []struct {
		name      string
		nc        schoolclass.NewClass
		wantErr   error
		wantField string
	}{
		{name: "valid", nc: schoolclass.NewClass{Name: " 5A "}},
		{name: "duplicate name", nc: schoolclass.NewClass{Name: "5A"}, wantErr: schoolclass.ErrNameExists, wantField: "name"},
		{name: "no name", nc: schoolclass.NewClass{}, wantField: "name"},
		{name: "name too long", nc: schoolclass.NewClass{Name: strings.Repeat("a", schoolclass.NameMaxLen+1)}, wantField: "name"},
		{name: "max length name", nc: schoolclass.NewClass{Name: strings.Repeat("a", schoolclass.NameMaxLen)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, err := svc.Create(ctx, tt.nc)
			if tt.wantField != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, core.FieldErrors(err, core.NewTranslator()), tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.nc.Name), class.String())
		})
	}
}

func TestService_GetOrCreate(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()
	class := testutil.CreateClass(t, repo, "5A")

	got, created, err := svc.GetOrCreate(ctx, "5A")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, class, got)

	got, created, err = svc.GetOrCreate(ctx, "5B")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "5B", got.Name)
}

func TestService_UpdateQueryDelete(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()
	class5A := testutil.CreateClass(t, repo, "5A")
	class4B := testutil.CreateClass(t, repo, "4B")

	_, err := svc.Update(ctx, class5A.ID, schoolclass.UpdateClass{Name: strPtr("4B")})
	assert.ErrorIs(t, err, schoolclass.ErrNameExists)
	_, err = svc.Update(ctx, "lol", schoolclass.UpdateClass{Name: strPtr("6C")})
	assert.ErrorIs(t, err, schoolclass.ErrNotFound)

	class5A, err = svc.Update(ctx, class5A.ID, schoolclass.UpdateClass{Name: strPtr("6C")})
	require.NoError(t, err)
	assert.Equal(t, "6C", class5A.Name)

	got, err := svc.GetByIDOrName(ctx, "6C")
	require.NoError(t, err)
	assert.Equal(t, class5A, got)

	classes, err := svc.Query(ctx, &schoolclass.QueryFilter{Search: "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []schoolclass.SchoolClass{class4B}, classes)

	classes, err = svc.Query(ctx, nil, core.ParseOrdering("-name"))
	require.NoError(t, err)
	assert.Equal(t, []schoolclass.SchoolClass{class5A, class4B}, classes)

	cnt, err := svc.Delete(ctx, class4B.ID, "lol")
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)
}
