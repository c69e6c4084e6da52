package student_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/testutil"
)

var (
	classRepo   schoolclass.Repository
	studentRepo student.Repository
)

func setup() (*student.Service, *schoolclass.Service) {
	db := inmemdb.Open()
	classRepo = inmemdb.NewClassRepository(db)
	studentRepo = inmemdb.NewStudentRepository(db)

	validate := core.NewValidator(core.NewTranslator())
	classSvc := schoolclass.NewService(classRepo, validate)
	return student.NewService(studentRepo, classSvc, validate), classSvc
}

func strPtr(s string) *string { return &s }

func TestStudent_String(t *testing.T) {
	s := student.Student{FullName: "Jane Doe", SchoolClass: &schoolclass.SchoolClass{Name: "5A"}}
	assert.Equal(t, "Jane Doe – 5A", s.String())

	s.SchoolClass = nil
	assert.Equal(t, "Jane Doe – ", s.String())
}

func TestService_Create(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()
	class := testutil.CreateClass(t, classRepo, "5A")

	tests := []struct {
		name      string
		ns        student.NewStudent
		want      string
		wantErr   error
		wantField string
	}{
		{name: "valid", ns: student.NewStudent{FullName: "Jane  Doe ", SchoolClassID: class.ID}, want: "Jane  Doe – 5A"},
		{name: "no class", ns: student.NewStudent{FullName: "Jane Doe"}, wantField: "school_class_id"},
		{name: "unknown class", ns: student.NewStudent{FullName: "Jane Doe", SchoolClassID: "lol"}, wantErr: student.ErrInvalidClass, wantField: "school_class_id"},
		{name: "no name", ns: student.NewStudent{SchoolClassID: class.ID}, wantField: "full_name"},
		{name: "name too long", ns: student.NewStudent{FullName: strings.Repeat("a", student.FullNameMaxLen+1), SchoolClassID: class.ID}, wantField: "full_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := svc.Create(ctx, tt.ns)
			if tt.wantField != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, core.FieldErrors(err, core.NewTranslator()), tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()
	class5A := testutil.CreateClass(t, classRepo, "5A")
	class4B := testutil.CreateClass(t, classRepo, "4B")
	s := testutil.CreateStudent(t, studentRepo, "Jane Doe", class5A.ID)

	_, err := svc.Update(ctx, "lol", student.UpdateStudent{FullName: strPtr("X")})
	assert.ErrorIs(t, err, student.ErrNotFound)
	_, err = svc.Update(ctx, s.ID, student.UpdateStudent{SchoolClassID: strPtr("lol")})
	assert.ErrorIs(t, err, student.ErrInvalidClass)
	_, err = svc.Update(ctx, s.ID, student.UpdateStudent{FullName: strPtr("")})
	assert.Contains(t, core.FieldErrors(err, core.NewTranslator()), "full_name")

	got, err := svc.Update(ctx, s.ID, student.UpdateStudent{FullName: strPtr("Jane Smith"), SchoolClassID: strPtr(class4B.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith – 4B", got.String())
}

func TestService_QueryCountDelete(t *testing.T) {
	svc, classSvc := setup()
	ctx := context.Background()
	class5A := testutil.CreateClass(t, classRepo, "5A")
	class4B := testutil.CreateClass(t, classRepo, "4B")
	jane := testutil.CreateStudent(t, studentRepo, "Jane Doe", class5A.ID)
	john := testutil.CreateStudent(t, studentRepo, "John Doe", class4B.ID)

	students, err := svc.Query(ctx, nil, core.ParseOrdering("school_class"))
	require.NoError(t, err)
	assert.Equal(t, []student.Student{john, jane}, students)

	cnt, err := svc.Count(ctx, &student.QueryFilter{SchoolClassID: class5A.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)

	// deleting a class deletes its students
	_, err = classSvc.Delete(ctx, class5A.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, jane.ID)
	assert.ErrorIs(t, err, student.ErrNotFound)

	students, err = svc.Query(ctx, &student.QueryFilter{Search: "DOE"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{john}, students)
}
