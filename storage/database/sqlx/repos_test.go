package sqlxrepos_test

import (
	"testing"

	sqlxrepos "github.com/trezcool/ratiba/storage/database/sqlx"
	"github.com/trezcool/ratiba/testutil"
)

func TestRepositories(t *testing.T) {
	testutil.TestRepositories(t, func(t *testing.T) testutil.Repositories {
		db := testutil.PrepareDB(t)
		return testutil.Repositories{
			Subjects: sqlxrepos.NewSubjectRepository(db),
			Teachers: sqlxrepos.NewTeacherRepository(db),
			Classes:  sqlxrepos.NewClassRepository(db),
			Students: sqlxrepos.NewStudentRepository(db),
		}
	})
}
