package gormrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
)

var classOrdering = map[string]string{
	"id":   "school_classes.id",
	"name": "school_classes.name",
}

type classRepository struct {
	db *gorm.DB
}

var _ schoolclass.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *gorm.DB) schoolclass.Repository {
	return &classRepository{db: db}
}

func (repo classRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return schoolclass.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return schoolclass.ErrNameExists
	}
	return errors.Wrap(err, msg)
}

func (repo classRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...schoolclass.SchoolClass) error {
	q := repo.db.WithContext(ctx).Model(&classModel{}).Where("name = ?", name)
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, c := range excluded {
			ids = append(ids, c.ID)
		}
		if ids = validIDs(ids); len(ids) > 0 {
			q = q.Where("id NOT IN ?", ids)
		}
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return errors.Wrap(err, "checking class uniqueness")
	}
	if cnt > 0 {
		return schoolclass.ErrNameExists
	}
	return nil
}

func (repo classRepository) CreateClass(ctx context.Context, class schoolclass.SchoolClass) (schoolclass.SchoolClass, error) {
	m := classModel{ID: uuid.New().String(), Name: class.Name}
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return schoolclass.SchoolClass{}, repo.mapErr(err, "inserting class")
	}
	return m.unwrap(), nil
}

func (repo classRepository) QueryClasses(ctx context.Context, filter *schoolclass.QueryFilter, ordering []core.DBOrdering) ([]schoolclass.SchoolClass, error) {
	orderBy, err := orderScope(ordering, []core.DBOrdering{{Field: "name", Ascending: true}}, classOrdering)
	if err != nil {
		return nil, err
	}
	q := repo.db.WithContext(ctx).Scopes(orderBy)
	if filter != nil && filter.Search != "" {
		q = q.Scopes(searchScope("school_classes.name", filter.Search))
	}

	var models []classModel
	if err = q.Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	classes := make([]schoolclass.SchoolClass, 0, len(models))
	for _, m := range models {
		classes = append(classes, m.unwrap())
	}
	return classes, nil
}

func (repo classRepository) GetClass(ctx context.Context, filter schoolclass.GetFilter) (schoolclass.SchoolClass, error) {
	q := repo.db.WithContext(ctx)
	switch {
	case filter.ID != "":
		if !isValidID(filter.ID) {
			return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
		}
		q = q.Where("id = ?", filter.ID)
	case filter.Name != "":
		q = q.Where("name = ?", filter.Name)
	default:
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}

	var m classModel
	if err := q.Take(&m).Error; err != nil {
		return schoolclass.SchoolClass{}, repo.mapErr(err, "finding class")
	}
	return m.unwrap(), nil
}

func (repo classRepository) UpdateClass(ctx context.Context, class schoolclass.SchoolClass) (schoolclass.SchoolClass, error) {
	if !isValidID(class.ID) {
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}
	res := repo.db.WithContext(ctx).Model(&classModel{ID: class.ID}).Update("name", class.Name)
	if res.Error != nil {
		return schoolclass.SchoolClass{}, repo.mapErr(res.Error, "updating class")
	}
	if res.RowsAffected == 0 {
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}
	return class, nil
}

func (repo classRepository) DeleteClassesByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}

	var cnt int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("school_class_id IN ?", ids).Delete(&studentModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&classModel{})
		cnt = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "deleting classes")
	}
	return int(cnt), nil
}
