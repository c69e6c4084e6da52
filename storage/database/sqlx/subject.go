package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

const subjectColumns = "id, name, description"

var subjectOrdering = map[string]string{
	"id":   "id",
	"name": "name",
}

type subjectRow struct {
	ID          string      `db:"id"`
	Name        string      `db:"name"`
	Description null.String `db:"description"`
}

func (row subjectRow) unwrap() subject.Subject {
	return subject.Subject{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description.String,
	}
}

type subjectRepository struct {
	db sqlx.ExtContext
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db sqlx.ExtContext) subject.Repository {
	return &subjectRepository{db: db}
}

// mapErr maps postgres errors to subject errors
func (repo subjectRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return subject.ErrNotFound
	case pqErrCode(err) == uniqueViolation:
		return subject.ErrNameExists
	}
	return errors.Wrap(err, msg)
}

func (repo subjectRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...subject.Subject) error {
	where := &whereClause{}
	where.add("name = ?", name)
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		if ids = validIDs(ids); len(ids) > 0 {
			where.add("id NOT IN (?)", ids)
		}
	}

	q, args, err := sqlx.In("SELECT EXISTS (SELECT 1 FROM subjects"+where.String()+")", where.args...)
	if err != nil {
		return errors.Wrap(err, "building subject uniqueness query")
	}
	var exists bool
	if err = sqlx.GetContext(ctx, repo.db, &exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking subject uniqueness")
	}
	if exists {
		return subject.ErrNameExists
	}
	return nil
}

func (repo subjectRepository) CreateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	row := subjectRow{
		ID:          uuid.New().String(),
		Name:        subj.Name,
		Description: null.NewString(subj.Description, subj.Description != ""),
	}
	q := repo.db.Rebind("INSERT INTO subjects (id, name, description) VALUES (?, ?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, row.ID, row.Name, row.Description); err != nil {
		return subject.Subject{}, repo.mapErr(err, "inserting subject")
	}
	return row.unwrap(), nil
}

func (repo subjectRepository) QuerySubjects(ctx context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	where := &whereClause{}
	if filter != nil && filter.Search != "" {
		where.add("name ILIKE ?", likePattern(filter.Search))
	}
	orderBy, err := orderByClause(ordering, []core.DBOrdering{{Field: "name", Ascending: true}}, subjectOrdering)
	if err != nil {
		return nil, err
	}

	var rows []subjectRow
	q := repo.db.Rebind("SELECT " + subjectColumns + " FROM subjects" + where.String() + orderBy)
	if err = sqlx.SelectContext(ctx, repo.db, &rows, q, where.args...); err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.unwrap())
	}
	return subjects, nil
}

func (repo subjectRepository) GetSubject(ctx context.Context, filter subject.GetFilter) (subject.Subject, error) {
	var q string
	var arg interface{}

	switch {
	case filter.ID != "":
		if !isValidID(filter.ID) {
			return subject.Subject{}, subject.ErrNotFound
		}
		q, arg = "SELECT "+subjectColumns+" FROM subjects WHERE id = ?", filter.ID
	case filter.Name != "":
		q, arg = "SELECT "+subjectColumns+" FROM subjects WHERE name = ?", filter.Name
	default:
		return subject.Subject{}, subject.ErrNotFound
	}

	var row subjectRow
	if err := sqlx.GetContext(ctx, repo.db, &row, repo.db.Rebind(q), arg); err != nil {
		return subject.Subject{}, repo.mapErr(err, "finding subject")
	}
	return row.unwrap(), nil
}

func (repo subjectRepository) UpdateSubject(ctx context.Context, subj subject.Subject) (subject.Subject, error) {
	if !isValidID(subj.ID) {
		return subject.Subject{}, subject.ErrNotFound
	}
	q := repo.db.Rebind("UPDATE subjects SET name = ?, description = ? WHERE id = ?")
	res, err := repo.db.ExecContext(ctx, q, subj.Name, null.NewString(subj.Description, subj.Description != ""), subj.ID)
	if err != nil {
		return subject.Subject{}, repo.mapErr(err, "updating subject")
	}
	if cnt, err := res.RowsAffected(); err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	} else if cnt == 0 {
		return subject.Subject{}, subject.ErrNotFound
	}
	return subj, nil
}

func (repo subjectRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In("DELETE FROM subjects WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "building subject delete query")
	}
	// teachers are removed by ON DELETE CASCADE
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting subjects")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting subjects")
	}
	return int(cnt), nil
}
