package gormrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/teacher"
)

var teacherOrdering = map[string]string{
	"id":        "teachers.id",
	"full_name": "teachers.full_name",
	"subject":   "Subject.name", // joined association alias
}

type teacherRepository struct {
	db *gorm.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *gorm.DB) teacher.Repository {
	return &teacherRepository{db: db}
}

func (repo teacherRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return teacher.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return teacher.ErrInvalidSubject
	}
	return errors.Wrap(err, msg)
}

func (repo teacherRepository) filter(filter *teacher.QueryFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == nil {
			return db
		}
		if filter.Search != "" {
			db = db.Scopes(searchScope("teachers.full_name", filter.Search))
		}
		if filter.SubjectID != "" {
			if !isValidID(filter.SubjectID) {
				return db.Where("1 = 0")
			}
			db = db.Where("teachers.subject_id = ?", filter.SubjectID)
		}
		return db
	}
}

// subjectExists guards writes, sqlite does not always report foreign key violations.
func (repo teacherRepository) subjectExists(tx *gorm.DB, id string) (bool, error) {
	if !isValidID(id) {
		return false, nil
	}
	var cnt int64
	if err := tx.Model(&subjectModel{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "checking subject")
	}
	return cnt > 0, nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	db := repo.db.WithContext(ctx)
	if ok, err := repo.subjectExists(db, t.SubjectID); err != nil {
		return teacher.Teacher{}, err
	} else if !ok {
		return teacher.Teacher{}, teacher.ErrInvalidSubject
	}

	m := teacherModel{ID: uuid.New().String(), FullName: t.FullName, SubjectID: t.SubjectID}
	if err := db.Omit(clause.Associations).Create(&m).Error; err != nil {
		return teacher.Teacher{}, repo.mapErr(err, "inserting teacher")
	}
	return repo.GetTeacher(ctx, m.ID)
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter *teacher.QueryFilter, ordering []core.DBOrdering) ([]teacher.Teacher, error) {
	orderBy, err := orderScope(ordering, []core.DBOrdering{{Field: "full_name", Ascending: true}}, teacherOrdering)
	if err != nil {
		return nil, err
	}

	var models []teacherModel
	err = repo.db.WithContext(ctx).
		Joins("Subject").
		Scopes(repo.filter(filter), orderBy).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}

	teachers := make([]teacher.Teacher, 0, len(models))
	for _, m := range models {
		teachers = append(teachers, m.unwrap())
	}
	return teachers, nil
}

func (repo teacherRepository) CountTeachers(ctx context.Context, filter *teacher.QueryFilter) (int, error) {
	var cnt int64
	if err := repo.db.WithContext(ctx).Model(&teacherModel{}).Scopes(repo.filter(filter)).Count(&cnt).Error; err != nil {
		return 0, errors.Wrap(err, "counting teachers")
	}
	return int(cnt), nil
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	if !isValidID(id) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	var m teacherModel
	if err := repo.db.WithContext(ctx).Joins("Subject").Where("teachers.id = ?", id).Take(&m).Error; err != nil {
		return teacher.Teacher{}, repo.mapErr(err, "finding teacher")
	}
	return m.unwrap(), nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	if !isValidID(t.ID) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	db := repo.db.WithContext(ctx)
	if ok, err := repo.subjectExists(db, t.SubjectID); err != nil {
		return teacher.Teacher{}, err
	} else if !ok {
		return teacher.Teacher{}, teacher.ErrInvalidSubject
	}

	res := db.Model(&teacherModel{ID: t.ID}).Updates(map[string]interface{}{
		"full_name":  t.FullName,
		"subject_id": t.SubjectID,
	})
	if res.Error != nil {
		return teacher.Teacher{}, repo.mapErr(res.Error, "updating teacher")
	}
	if res.RowsAffected == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}
	res := repo.db.WithContext(ctx).Where("id IN ?", ids).Delete(&teacherModel{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting teachers")
	}
	return int(res.RowsAffected), nil
}
