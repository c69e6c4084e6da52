package inmemdb_test

import (
	"context"
	"testing"

	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	"github.com/trezcool/ratiba/testutil"
)

func TestRepositories(t *testing.T) {
	testutil.TestRepositories(t, func(t *testing.T) testutil.Repositories {
		db := inmemdb.Open()
		return testutil.Repositories{
			Subjects: inmemdb.NewSubjectRepository(db),
			Teachers: inmemdb.NewTeacherRepository(db),
			Classes:  inmemdb.NewClassRepository(db),
			Students: inmemdb.NewStudentRepository(db),
		}
	})
}

func TestDB_Reset(t *testing.T) {
	db := inmemdb.Open()
	subjects := inmemdb.NewSubjectRepository(db)
	teachers := inmemdb.NewTeacherRepository(db)
	maths := testutil.CreateSubject(t, subjects, "Maths")
	testutil.CreateTeacher(t, teachers, "Ada Lovelace", maths.ID)

	db.Reset()

	if cnt, err := teachers.CountTeachers(context.Background(), nil); err != nil || cnt != 0 {
		t.Errorf("CountTeachers() = %d, %v; want 0, nil", cnt, err)
	}
}
