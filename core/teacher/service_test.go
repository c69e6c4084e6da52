package teacher_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/testutil"
)

var (
	subjRepo    subject.Repository
	teacherRepo teacher.Repository
)

func setup(t *testing.T) (*teacher.Service, *subject.Service) {
	db := inmemdb.Open()
	subjRepo = inmemdb.NewSubjectRepository(db)
	teacherRepo = inmemdb.NewTeacherRepository(db)

	validate := core.NewValidator(core.NewTranslator())
	subjSvc := subject.NewService(subjRepo, validate)
	return teacher.NewService(teacherRepo, subjSvc, validate), subjSvc
}

func strPtr(s string) *string { return &s }

func TestTeacher_String(t *testing.T) {
	tests := []struct {
		name string
		t    teacher.Teacher
		want string
	}{
		{name: "with subject", t: teacher.Teacher{FullName: "Ada Lovelace", Subject: &subject.Subject{Name: "Maths"}}, want: "Ada Lovelace (Maths)"},
		{name: "subject not loaded", t: teacher.Teacher{FullName: "Ada Lovelace"}, want: "Ada Lovelace ()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.t.String())
		})
	}
}

func TestService_Create(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	maths := testutil.CreateSubject(t, subjRepo, "Maths")

	tests := []struct {
		name      string
		nt        teacher.NewTeacher
		want      string
		wantErr   error
		wantField string
	}{
		{name: "valid", nt: teacher.NewTeacher{FullName: " Ada Lovelace ", SubjectID: maths.ID}, want: "Ada Lovelace (Maths)"},
		{name: "no subject", nt: teacher.NewTeacher{FullName: "Ada Lovelace"}, wantField: "subject_id"},
		{name: "unknown subject", nt: teacher.NewTeacher{FullName: "Ada Lovelace", SubjectID: "lol"}, wantErr: teacher.ErrInvalidSubject, wantField: "subject_id"},
		{name: "blank name", nt: teacher.NewTeacher{FullName: " ", SubjectID: maths.ID}, wantField: "full_name"},
		{name: "name too long", nt: teacher.NewTeacher{FullName: strings.Repeat("a", teacher.FullNameMaxLen+1), SubjectID: maths.ID}, wantField: "full_name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tchr, err := svc.Create(ctx, tt.nt)
			if tt.wantField != "" {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Contains(t, core.FieldErrors(err, core.NewTranslator()), tt.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tchr.String())

			got, err := svc.GetByID(ctx, tchr.ID)
			require.NoError(t, err)
			assert.Equal(t, tchr, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	maths := testutil.CreateSubject(t, subjRepo, "Maths")
	physics := testutil.CreateSubject(t, subjRepo, "Physics")
	tchr := testutil.CreateTeacher(t, teacherRepo, "Ada Lovelace", maths.ID)

	tests := []struct {
		name    string
		id      string
		ut      teacher.UpdateTeacher
		want    string
		wantErr error
	}{
		{name: "not found", id: "lol", ut: teacher.UpdateTeacher{FullName: strPtr("X")}, wantErr: teacher.ErrNotFound},
		{name: "unknown subject", id: tchr.ID, ut: teacher.UpdateTeacher{SubjectID: strPtr("lol")}, wantErr: teacher.ErrInvalidSubject},
		{name: "nothing", id: tchr.ID, want: "Ada Lovelace (Maths)"},
		{name: "name", id: tchr.ID, ut: teacher.UpdateTeacher{FullName: strPtr("Ada King")}, want: "Ada King (Maths)"},
		{name: "subject", id: tchr.ID, ut: teacher.UpdateTeacher{SubjectID: strPtr(physics.ID)}, want: "Ada King (Physics)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Update(ctx, tt.id, tt.ut)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestService_QueryCountDelete(t *testing.T) {
	svc, subjSvc := setup(t)
	ctx := context.Background()
	maths := testutil.CreateSubject(t, subjRepo, "Maths")
	physics := testutil.CreateSubject(t, subjRepo, "Physics")
	ada := testutil.CreateTeacher(t, teacherRepo, "Ada Lovelace", maths.ID)
	emmy := testutil.CreateTeacher(t, teacherRepo, "Emmy Noether", maths.ID)
	newton := testutil.CreateTeacher(t, teacherRepo, "Isaac Newton", physics.ID)

	teachers, err := svc.Query(ctx, &teacher.QueryFilter{SubjectID: " " + maths.ID + " "}, core.ParseOrdering("-full_name"))
	require.NoError(t, err)
	assert.Equal(t, []teacher.Teacher{emmy, ada}, teachers)

	_, err = svc.Query(ctx, nil, core.ParseOrdering("subject_id"))
	assert.Contains(t, core.FieldErrors(err, core.NewTranslator()), "ordering")

	cnt, err := svc.Count(ctx, &teacher.QueryFilter{Search: "o"})
	require.NoError(t, err)
	assert.Equal(t, 3, cnt)

	// deleting a subject deletes its teachers
	_, err = subjSvc.Delete(ctx, maths.ID)
	require.NoError(t, err)
	teachers, err = svc.Query(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []teacher.Teacher{newton}, teachers)

	cnt, err = svc.Delete(ctx, newton.ID, ada.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)
}
