package gormrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/student"
)

var studentOrdering = map[string]string{
	"id":           "students.id",
	"full_name":    "students.full_name",
	"school_class": "SchoolClass.name", // joined association alias
}

type studentRepository struct {
	db *gorm.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *gorm.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo studentRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return student.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return student.ErrInvalidClass
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) filter(filter *student.QueryFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == nil {
			return db
		}
		if filter.Search != "" {
			db = db.Scopes(searchScope("students.full_name", filter.Search))
		}
		if filter.SchoolClassID != "" {
			if !isValidID(filter.SchoolClassID) {
				return db.Where("1 = 0")
			}
			db = db.Where("students.school_class_id = ?", filter.SchoolClassID)
		}
		return db
	}
}

// classExists guards writes, sqlite does not always report foreign key violations.
func (repo studentRepository) classExists(tx *gorm.DB, id string) (bool, error) {
	if !isValidID(id) {
		return false, nil
	}
	var cnt int64
	if err := tx.Model(&classModel{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, errors.Wrap(err, "checking class")
	}
	return cnt > 0, nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	db := repo.db.WithContext(ctx)
	if ok, err := repo.classExists(db, s.SchoolClassID); err != nil {
		return student.Student{}, err
	} else if !ok {
		return student.Student{}, student.ErrInvalidClass
	}

	m := studentModel{ID: uuid.New().String(), FullName: s.FullName, SchoolClassID: s.SchoolClassID}
	if err := db.Omit(clause.Associations).Create(&m).Error; err != nil {
		return student.Student{}, repo.mapErr(err, "inserting student")
	}
	return repo.GetStudent(ctx, m.ID)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	orderBy, err := orderScope(ordering, []core.DBOrdering{{Field: "full_name", Ascending: true}}, studentOrdering)
	if err != nil {
		return nil, err
	}

	var models []studentModel
	err = repo.db.WithContext(ctx).
		Joins("SchoolClass").
		Scopes(repo.filter(filter), orderBy).
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(models))
	for _, m := range models {
		students = append(students, m.unwrap())
	}
	return students, nil
}

func (repo studentRepository) CountStudents(ctx context.Context, filter *student.QueryFilter) (int, error) {
	var cnt int64
	if err := repo.db.WithContext(ctx).Model(&studentModel{}).Scopes(repo.filter(filter)).Count(&cnt).Error; err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return int(cnt), nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if !isValidID(id) {
		return student.Student{}, student.ErrNotFound
	}
	var m studentModel
	if err := repo.db.WithContext(ctx).Joins("SchoolClass").Where("students.id = ?", id).Take(&m).Error; err != nil {
		return student.Student{}, repo.mapErr(err, "finding student")
	}
	return m.unwrap(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	if !isValidID(s.ID) {
		return student.Student{}, student.ErrNotFound
	}
	db := repo.db.WithContext(ctx)
	if ok, err := repo.classExists(db, s.SchoolClassID); err != nil {
		return student.Student{}, err
	} else if !ok {
		return student.Student{}, student.ErrInvalidClass
	}

	res := db.Model(&studentModel{ID: s.ID}).Updates(map[string]interface{}{
		"full_name":       s.FullName,
		"school_class_id": s.SchoolClassID,
	})
	if res.Error != nil {
		return student.Student{}, repo.mapErr(res.Error, "updating student")
	}
	if res.RowsAffected == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}
	res := repo.db.WithContext(ctx).Where("id IN ?", ids).Delete(&studentModel{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting students")
	}
	return int(res.RowsAffected), nil
}
