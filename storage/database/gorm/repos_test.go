package gormrepos_test

import (
	"testing"

	gormrepos "github.com/trezcool/ratiba/storage/database/gorm"
	"github.com/trezcool/ratiba/testutil"
)

func TestRepositories(t *testing.T) {
	testutil.TestRepositories(t, func(t *testing.T) testutil.Repositories {
		db := testutil.PrepareGorm(t)
		return testutil.Repositories{
			Subjects: gormrepos.NewSubjectRepository(db),
			Teachers: gormrepos.NewTeacherRepository(db),
			Classes:  gormrepos.NewClassRepository(db),
			Students: gormrepos.NewStudentRepository(db),
		}
	})
}
