package gormrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

var subjectOrdering = map[string]string{
	"id":   "subjects.id",
	"name": "subjects.name",
}

type subjectRepository struct {
	db *gorm.DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *gorm.DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo subjectRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return subject.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return subject.ErrNameExists
	}
	return errors.Wrap(err, msg)
}

func (repo subjectRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...subject.Subject) error {
	q := repo.db.WithContext(ctx).Model(&subjectModel{}).Where("name = ?", name)
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		if ids = validIDs(ids); len(ids) > 0 {
			q = q.Where("id NOT IN ?", ids)
		}
	}

	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return errors.Wrap(err, "checking subject uniqueness")
	}
	if cnt > 0 {
		return subject.ErrNameExists
	}
	return nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	subj.ID = uuid.New().String()
	m := wrapSubject(subj)
	if err := repo.db.WithContext(ctx).Create(&m).Error; err != nil {
		return subject.Subject{}, repo.mapErr(err, "inserting subject")
	}
	return m.unwrap(), nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	orderBy, err := orderScope(ordering, []core.DBOrdering{{Field: "name", Ascending: true}}, subjectOrdering)
	if err != nil {
		return nil, err
	}
	q := repo.db.WithContext(ctx).Scopes(orderBy)
	if filter != nil && filter.Search != "" {
		q = q.Scopes(searchScope("subjects.name", filter.Search))
	}

	var models []subjectModel
	if err = q.Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	subjects := make([]subject.Subject, 0, len(models))
	for _, m := range models {
		subjects = append(subjects, m.unwrap())
	}
	return subjects, nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, filter subject.GetFilter) (subject.Subject, error) {
	q := repo.db.WithContext(ctx)
	switch {
	case filter.ID != "":
		if !isValidID(filter.ID) {
			return subject.Subject{}, subject.ErrNotFound
		}
		q = q.Where("id = ?", filter.ID)
	case filter.Name != "":
		q = q.Where("name = ?", filter.Name)
	default:
		return subject.Subject{}, subject.ErrNotFound
	}

	var m subjectModel
	if err := q.Take(&m).Error; err != nil {
		return subject.Subject{}, repo.mapErr(err, "finding subject")
	}
	return m.unwrap(), nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	if !isValidID(subj.ID) {
		return subject.Subject{}, subject.ErrNotFound
	}
	m := wrapSubject(subj)
	res := repo.db.WithContext(ctx).Model(&subjectModel{ID: subj.ID}).Updates(map[string]interface{}{
		"name":        m.Name,
		"description": m.Description,
	})
	if res.Error != nil {
		return subject.Subject{}, repo.mapErr(res.Error, "updating subject")
	}
	if res.RowsAffected == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return subj, nil
}

func (repo subjectRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}

	var cnt int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// cascade explicitly: sqlite only enforces foreign keys when the pragma is on
		if err := tx.Where("subject_id IN ?", ids).Delete(&teacherModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", ids).Delete(&subjectModel{})
		cnt = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "deleting subjects")
	}
	return int(cnt), nil
}
