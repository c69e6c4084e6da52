package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
	"github.com/trezcool/ratiba/core/subject"
	"github.com/trezcool/ratiba/core/teacher"
)

// Repositories groups one storage backend's repositories.
type Repositories struct {
	Subjects subject.Repository
	Teachers teacher.Repository
	Classes  schoolclass.Repository
	Students student.Repository
}

const unknownID = "00000000-0000-0000-0000-000000000000"

// TestRepositories runs the behaviour every storage backend must share.
// `newRepos` must return repositories over an empty database.
func TestRepositories(t *testing.T, newRepos func(t *testing.T) Repositories) {
	ctx := context.Background()

	t.Run("subject CRUD", func(t *testing.T) {
		repos := newRepos(t)
		maths := CreateSubject(t, repos.Subjects, "Maths", "Numbers")
		assert.NotEmpty(t, maths.ID)

		got, err := repos.Subjects.GetSubject(ctx, subject.GetFilter{ID: maths.ID})
		require.NoError(t, err)
		assert.Equal(t, maths, got)

		got, err = repos.Subjects.GetSubject(ctx, subject.GetFilter{Name: "Maths"})
		require.NoError(t, err)
		assert.Equal(t, maths, got)

		maths.Name = "Mathematics"
		maths.Description = ""
		_, err = repos.Subjects.UpdateSubject(ctx, maths)
		require.NoError(t, err)
		got, err = repos.Subjects.GetSubject(ctx, subject.GetFilter{ID: maths.ID})
		require.NoError(t, err)
		assert.Equal(t, maths, got)

		cnt, err := repos.Subjects.DeleteSubjectsByID(ctx, maths.ID, unknownID, "lol")
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)
		_, err = repos.Subjects.GetSubject(ctx, subject.GetFilter{ID: maths.ID})
		assert.ErrorIs(t, err, subject.ErrNotFound)
	})

	t.Run("subject not found", func(t *testing.T) {
		repos := newRepos(t)
		for _, filter := range []subject.GetFilter{{ID: unknownID}, {ID: "lol"}, {Name: "lol"}, {}} {
			_, err := repos.Subjects.GetSubject(ctx, filter)
			assert.ErrorIs(t, err, subject.ErrNotFound, "filter: %+v", filter)
		}
		_, err := repos.Subjects.UpdateSubject(ctx, subject.Subject{ID: unknownID, Name: "X"})
		assert.ErrorIs(t, err, subject.ErrNotFound)
	})

	t.Run("subject name uniqueness", func(t *testing.T) {
		repos := newRepos(t)
		maths := CreateSubject(t, repos.Subjects, "Maths")
		physics := CreateSubject(t, repos.Subjects, "Physics")

		assert.ErrorIs(t, repos.Subjects.CheckNameUniqueness(ctx, "Maths"), subject.ErrNameExists)
		assert.NoError(t, repos.Subjects.CheckNameUniqueness(ctx, "Maths", maths))
		assert.NoError(t, repos.Subjects.CheckNameUniqueness(ctx, "Chemistry"))

		_, err := repos.Subjects.CreateSubject(ctx, subject.Subject{Name: "Maths"})
		assert.Error(t, err)
		physics.Name = "Maths"
		_, err = repos.Subjects.UpdateSubject(ctx, physics)
		assert.Error(t, err)
	})

	t.Run("subject query", func(t *testing.T) {
		repos := newRepos(t)
		CreateSubject(t, repos.Subjects, "Physics")
		CreateSubject(t, repos.Subjects, "Maths")
		CreateSubject(t, repos.Subjects, "Physical Education")

		names := func(subjects []subject.Subject) []string {
			res := make([]string, 0, len(subjects))
			for _, s := range subjects {
				res = append(res, s.Name)
			}
			return res
		}

		subjects, err := repos.Subjects.QuerySubjects(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Maths", "Physical Education", "Physics"}, names(subjects))

		subjects, err = repos.Subjects.QuerySubjects(ctx, &subject.QueryFilter{Search: "phys"}, core.ParseOrdering("-name"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Physics", "Physical Education"}, names(subjects))

		_, err = repos.Subjects.QuerySubjects(ctx, nil, core.ParseOrdering("description"))
		var valErr *core.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("teacher requires an existing subject", func(t *testing.T) {
		repos := newRepos(t)
		for _, subjID := range []string{"", unknownID, "lol"} {
			_, err := repos.Teachers.CreateTeacher(ctx, teacher.Teacher{FullName: "Ada Lovelace", SubjectID: subjID})
			assert.ErrorIs(t, err, teacher.ErrInvalidSubject, "subject id: %q", subjID)
		}

		maths := CreateSubject(t, repos.Subjects, "Maths")
		tchr := CreateTeacher(t, repos.Teachers, "Ada Lovelace", maths.ID)
		tchr.SubjectID = unknownID
		_, err := repos.Teachers.UpdateTeacher(ctx, tchr)
		assert.ErrorIs(t, err, teacher.ErrInvalidSubject)
	})

	t.Run("teacher CRUD", func(t *testing.T) {
		repos := newRepos(t)
		maths := CreateSubject(t, repos.Subjects, "Maths")
		physics := CreateSubject(t, repos.Subjects, "Physics")

		tchr := CreateTeacher(t, repos.Teachers, "Ada Lovelace", maths.ID)
		assert.NotEmpty(t, tchr.ID)
		assert.Equal(t, "Ada Lovelace (Maths)", tchr.String())

		got, err := repos.Teachers.GetTeacher(ctx, tchr.ID)
		require.NoError(t, err)
		assert.Equal(t, tchr, got)

		tchr.FullName = "Ada King"
		tchr.SubjectID = physics.ID
		got, err = repos.Teachers.UpdateTeacher(ctx, tchr)
		require.NoError(t, err)
		assert.Equal(t, "Ada King (Physics)", got.String())

		_, err = repos.Teachers.GetTeacher(ctx, "lol")
		assert.ErrorIs(t, err, teacher.ErrNotFound)
		_, err = repos.Teachers.UpdateTeacher(ctx, teacher.Teacher{ID: unknownID, FullName: "X", SubjectID: maths.ID})
		assert.ErrorIs(t, err, teacher.ErrNotFound)

		cnt, err := repos.Teachers.DeleteTeachersByID(ctx, tchr.ID, tchr.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)
		_, err = repos.Teachers.GetTeacher(ctx, tchr.ID)
		assert.ErrorIs(t, err, teacher.ErrNotFound)
	})

	t.Run("teacher query", func(t *testing.T) {
		repos := newRepos(t)
		maths := CreateSubject(t, repos.Subjects, "Maths")
		physics := CreateSubject(t, repos.Subjects, "Physics")
		CreateTeacher(t, repos.Teachers, "Isaac Newton", physics.ID)
		CreateTeacher(t, repos.Teachers, "Ada Lovelace", maths.ID)
		CreateTeacher(t, repos.Teachers, "Emmy Noether", maths.ID)

		strs := func(teachers []teacher.Teacher) []string {
			res := make([]string, 0, len(teachers))
			for _, t := range teachers {
				res = append(res, t.String())
			}
			return res
		}

		teachers, err := repos.Teachers.QueryTeachers(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ada Lovelace (Maths)", "Emmy Noether (Maths)", "Isaac Newton (Physics)"}, strs(teachers))

		teachers, err = repos.Teachers.QueryTeachers(ctx, nil, core.ParseOrdering("-subject,-full_name"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Isaac Newton (Physics)", "Emmy Noether (Maths)", "Ada Lovelace (Maths)"}, strs(teachers))

		filter := &teacher.QueryFilter{SubjectID: maths.ID, Search: "NOE"}
		teachers, err = repos.Teachers.QueryTeachers(ctx, filter, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"Emmy Noether (Maths)"}, strs(teachers))

		cnt, err := repos.Teachers.CountTeachers(ctx, &teacher.QueryFilter{SubjectID: maths.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, cnt)
		cnt, err = repos.Teachers.CountTeachers(ctx, &teacher.QueryFilter{SubjectID: "lol"})
		require.NoError(t, err)
		assert.Zero(t, cnt)
	})

	t.Run("deleting a subject deletes its teachers", func(t *testing.T) {
		repos := newRepos(t)
		maths := CreateSubject(t, repos.Subjects, "Maths")
		physics := CreateSubject(t, repos.Subjects, "Physics")
		ada := CreateTeacher(t, repos.Teachers, "Ada Lovelace", maths.ID)
		CreateTeacher(t, repos.Teachers, "Emmy Noether", maths.ID)
		newton := CreateTeacher(t, repos.Teachers, "Isaac Newton", physics.ID)

		cnt, err := repos.Subjects.DeleteSubjectsByID(ctx, maths.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)

		_, err = repos.Teachers.GetTeacher(ctx, ada.ID)
		assert.ErrorIs(t, err, teacher.ErrNotFound)
		teachers, err := repos.Teachers.QueryTeachers(ctx, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []teacher.Teacher{newton}, teachers)
	})

	t.Run("class CRUD & uniqueness", func(t *testing.T) {
		repos := newRepos(t)
		class := CreateClass(t, repos.Classes, "5A")
		CreateClass(t, repos.Classes, "4B")

		got, err := repos.Classes.GetClass(ctx, schoolclass.GetFilter{Name: "5A"})
		require.NoError(t, err)
		assert.Equal(t, class, got)

		assert.ErrorIs(t, repos.Classes.CheckNameUniqueness(ctx, "4B"), schoolclass.ErrNameExists)
		assert.NoError(t, repos.Classes.CheckNameUniqueness(ctx, "5A", class))
		_, err = repos.Classes.CreateClass(ctx, schoolclass.SchoolClass{Name: "4B"})
		assert.Error(t, err)

		class.Name = "5C"
		_, err = repos.Classes.UpdateClass(ctx, class)
		require.NoError(t, err)

		classes, err := repos.Classes.QueryClasses(ctx, nil, core.ParseOrdering("-name"))
		require.NoError(t, err)
		if assert.Len(t, classes, 2) {
			assert.Equal(t, "5C", classes[0].Name)
			assert.Equal(t, "4B", classes[1].Name)
		}

		_, err = repos.Classes.GetClass(ctx, schoolclass.GetFilter{ID: "lol"})
		assert.ErrorIs(t, err, schoolclass.ErrNotFound)
	})

	t.Run("student CRUD", func(t *testing.T) {
		repos := newRepos(t)
		class5A := CreateClass(t, repos.Classes, "5A")
		class4B := CreateClass(t, repos.Classes, "4B")

		_, err := repos.Students.CreateStudent(ctx, student.Student{FullName: "Jane Doe", SchoolClassID: unknownID})
		assert.ErrorIs(t, err, student.ErrInvalidClass)

		s := CreateStudent(t, repos.Students, "Jane Doe", class5A.ID)
		assert.Equal(t, "Jane Doe – 5A", s.String())

		s.SchoolClassID = class4B.ID
		s, err = repos.Students.UpdateStudent(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe – 4B", s.String())

		CreateStudent(t, repos.Students, "John Doe", class5A.ID)
		students, err := repos.Students.QueryStudents(ctx, &student.QueryFilter{Search: "doe"}, core.ParseOrdering("school_class"))
		require.NoError(t, err)
		if assert.Len(t, students, 2) {
			assert.Equal(t, "Jane Doe – 4B", students[0].String())
			assert.Equal(t, "John Doe – 5A", students[1].String())
		}

		cnt, err := repos.Students.DeleteStudentsByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)
		_, err = repos.Students.GetStudent(ctx, s.ID)
		assert.ErrorIs(t, err, student.ErrNotFound)
	})

	t.Run("deleting a class deletes its students", func(t *testing.T) {
		repos := newRepos(t)
		class5A := CreateClass(t, repos.Classes, "5A")
		class4B := CreateClass(t, repos.Classes, "4B")
		jane := CreateStudent(t, repos.Students, "Jane Doe", class5A.ID)
		john := CreateStudent(t, repos.Students, "John Doe", class4B.ID)

		cnt, err := repos.Classes.DeleteClassesByID(ctx, class5A.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)

		_, err = repos.Students.GetStudent(ctx, jane.ID)
		assert.ErrorIs(t, err, student.ErrNotFound)
		cnt, err = repos.Students.CountStudents(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, cnt)
		got, err := repos.Students.GetStudent(ctx, john.ID)
		require.NoError(t, err)
		assert.Equal(t, john, got)
	})
}
