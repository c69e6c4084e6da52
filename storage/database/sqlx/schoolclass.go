package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
)

var classOrdering = map[string]string{
	"id":   "id",
	"name": "name",
}

type classRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func (row classRow) unwrap() schoolclass.SchoolClass {
	return schoolclass.SchoolClass{ID: row.ID, Name: row.Name}
}

type classRepository struct {
	db sqlx.ExtContext
}

var _ schoolclass.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db sqlx.ExtContext) schoolclass.Repository {
	return &classRepository{db: db}
}

func (repo classRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return schoolclass.ErrNotFound
	case pqErrCode(err) == uniqueViolation:
		return schoolclass.ErrNameExists
	}
	return errors.Wrap(err, msg)
}

func (repo classRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...schoolclass.SchoolClass) error {
	where := &whereClause{}
	where.add("name = ?", name)
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, c := range excluded {
			ids = append(ids, c.ID)
		}
		if ids = validIDs(ids); len(ids) > 0 {
			where.add("id NOT IN (?)", ids)
		}
	}

	q, args, err := sqlx.In("SELECT EXISTS (SELECT 1 FROM school_classes"+where.String()+")", where.args...)
	if err != nil {
		return errors.Wrap(err, "building class uniqueness query")
	}
	var exists bool
	if err = sqlx.GetContext(ctx, repo.db, &exists, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking class uniqueness")
	}
	if exists {
		return schoolclass.ErrNameExists
	}
	return nil
}

func (repo classRepository) CreateClass(ctx context.Context, class schoolclass.SchoolClass) (schoolclass.SchoolClass, error) {
	class.ID = uuid.New().String()
	q := repo.db.Rebind("INSERT INTO school_classes (id, name) VALUES (?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, class.ID, class.Name); err != nil {
		return schoolclass.SchoolClass{}, repo.mapErr(err, "inserting class")
	}
	return class, nil
}

func (repo classRepository) QueryClasses(ctx context.Context, filter *schoolclass.QueryFilter, ordering []core.DBOrdering) ([]schoolclass.SchoolClass, error) {
	where := &whereClause{}
	if filter != nil && filter.Search != "" {
		where.add("name ILIKE ?", likePattern(filter.Search))
	}
	orderBy, err := orderByClause(ordering, []core.DBOrdering{{Field: "name", Ascending: true}}, classOrdering)
	if err != nil {
		return nil, err
	}

	var rows []classRow
	q := repo.db.Rebind("SELECT id, name FROM school_classes" + where.String() + orderBy)
	if err = sqlx.SelectContext(ctx, repo.db, &rows, q, where.args...); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	classes := make([]schoolclass.SchoolClass, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.unwrap())
	}
	return classes, nil
}

func (repo classRepository) GetClass(ctx context.Context, filter schoolclass.GetFilter) (schoolclass.SchoolClass, error) {
	var q string
	var arg interface{}

	switch {
	case filter.ID != "":
		if !isValidID(filter.ID) {
			return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
		}
		q, arg = "SELECT id, name FROM school_classes WHERE id = ?", filter.ID
	case filter.Name != "":
		q, arg = "SELECT id, name FROM school_classes WHERE name = ?", filter.Name
	default:
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}

	var row classRow
	if err := sqlx.GetContext(ctx, repo.db, &row, repo.db.Rebind(q), arg); err != nil {
		return schoolclass.SchoolClass{}, repo.mapErr(err, "finding class")
	}
	return row.unwrap(), nil
}

func (repo classRepository) UpdateClass(ctx context.Context, class schoolclass.SchoolClass) (schoolclass.SchoolClass, error) {
	if !isValidID(class.ID) {
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind("UPDATE school_classes SET name = ? WHERE id = ?"), class.Name, class.ID)
	if err != nil {
		return schoolclass.SchoolClass{}, repo.mapErr(err, "updating class")
	}
	if cnt, err := res.RowsAffected(); err != nil {
		return schoolclass.SchoolClass{}, errors.Wrap(err, "updating class")
	} else if cnt == 0 {
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}
	return class, nil
}

func (repo classRepository) DeleteClassesByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In("DELETE FROM school_classes WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "building class delete query")
	}
	// students are removed by ON DELETE CASCADE
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting classes")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting classes")
	}
	return int(cnt), nil
}
