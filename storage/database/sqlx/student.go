package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
	"github.com/trezcool/ratiba/core/student"
)

const studentSelect = `SELECT st.id, st.full_name, st.school_class_id, c.name AS school_class_name
	FROM students st JOIN school_classes c ON c.id = st.school_class_id`

var studentOrdering = map[string]string{
	"id":           "st.id",
	"full_name":    "st.full_name",
	"school_class": "c.name",
}

type studentRow struct {
	ID              string `db:"id"`
	FullName        string `db:"full_name"`
	SchoolClassID   string `db:"school_class_id"`
	SchoolClassName string `db:"school_class_name"`
}

func (row studentRow) unwrap() student.Student {
	return student.Student{
		ID:            row.ID,
		FullName:      row.FullName,
		SchoolClassID: row.SchoolClassID,
		SchoolClass:   &schoolclass.SchoolClass{ID: row.SchoolClassID, Name: row.SchoolClassName},
	}
}

type studentRepository struct {
	db sqlx.ExtContext
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db sqlx.ExtContext) student.Repository {
	return &studentRepository{db: db}
}

func (repo studentRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return student.ErrNotFound
	case pqErrCode(err) == foreignKeyViolation:
		return student.ErrInvalidClass
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) where(filter *student.QueryFilter) *whereClause {
	where := &whereClause{}
	if filter == nil {
		return where
	}
	if filter.Search != "" {
		where.add("st.full_name ILIKE ?", likePattern(filter.Search))
	}
	if filter.SchoolClassID != "" {
		if !isValidID(filter.SchoolClassID) {
			where.add("FALSE")
		} else {
			where.add("st.school_class_id = ?", filter.SchoolClassID)
		}
	}
	return where
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	if !isValidID(s.SchoolClassID) {
		return student.Student{}, student.ErrInvalidClass
	}
	id := uuid.New().String()
	q := repo.db.Rebind("INSERT INTO students (id, full_name, school_class_id) VALUES (?, ?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, id, s.FullName, s.SchoolClassID); err != nil {
		return student.Student{}, repo.mapErr(err, "inserting student")
	}
	return repo.GetStudent(ctx, id)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	where := repo.where(filter)
	orderBy, err := orderByClause(ordering, []core.DBOrdering{{Field: "full_name", Ascending: true}}, studentOrdering)
	if err != nil {
		return nil, err
	}

	var rows []studentRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(studentSelect+where.String()+orderBy), where.args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.unwrap())
	}
	return students, nil
}

func (repo studentRepository) CountStudents(ctx context.Context, filter *student.QueryFilter) (int, error) {
	where := repo.where(filter)
	var cnt int
	if err := sqlx.GetContext(ctx, repo.db, &cnt, repo.db.Rebind("SELECT COUNT(*) FROM students st"+where.String()), where.args...); err != nil {
		return 0, errors.Wrap(err, "counting students")
	}
	return cnt, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	if !isValidID(id) {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	if err := sqlx.GetContext(ctx, repo.db, &row, repo.db.Rebind(studentSelect+" WHERE st.id = ?"), id); err != nil {
		return student.Student{}, repo.mapErr(err, "finding student")
	}
	return row.unwrap(), nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	if !isValidID(s.ID) {
		return student.Student{}, student.ErrNotFound
	}
	if !isValidID(s.SchoolClassID) {
		return student.Student{}, student.ErrInvalidClass
	}
	q := repo.db.Rebind("UPDATE students SET full_name = ?, school_class_id = ? WHERE id = ?")
	res, err := repo.db.ExecContext(ctx, q, s.FullName, s.SchoolClassID, s.ID)
	if err != nil {
		return student.Student{}, repo.mapErr(err, "updating student")
	}
	if cnt, err := res.RowsAffected(); err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	} else if cnt == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In("DELETE FROM students WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "building student delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting students")
	}
	return int(cnt), nil
}
