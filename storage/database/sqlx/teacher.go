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
	"github.com/trezcool/ratiba/core/teacher"
)

const teacherSelect = `SELECT t.id, t.full_name, t.subject_id,
	s.name AS subject_name, s.description AS subject_description
	FROM teachers t JOIN subjects s ON s.id = t.subject_id`

var teacherOrdering = map[string]string{
	"id":        "t.id",
	"full_name": "t.full_name",
	"subject":   "s.name",
}

type teacherRow struct {
	ID                 string      `db:"id"`
	FullName           string      `db:"full_name"`
	SubjectID          string      `db:"subject_id"`
	SubjectName        string      `db:"subject_name"`
	SubjectDescription null.String `db:"subject_description"`
}

func (row teacherRow) unwrap() teacher.Teacher {
	return teacher.Teacher{
		ID:        row.ID,
		FullName:  row.FullName,
		SubjectID: row.SubjectID,
		Subject: &subject.Subject{
			ID:          row.SubjectID,
			Name:        row.SubjectName,
			Description: row.SubjectDescription.String,
		},
	}
}

type teacherRepository struct {
	db sqlx.ExtContext
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db sqlx.ExtContext) teacher.Repository {
	return &teacherRepository{db: db}
}

// mapErr maps postgres errors to teacher errors
func (repo teacherRepository) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return teacher.ErrNotFound
	case pqErrCode(err) == foreignKeyViolation:
		return teacher.ErrInvalidSubject
	}
	return errors.Wrap(err, msg)
}

func (repo teacherRepository) where(filter *teacher.QueryFilter) *whereClause {
	where := &whereClause{}
	if filter == nil {
		return where
	}
	if filter.Search != "" {
		where.add("t.full_name ILIKE ?", likePattern(filter.Search))
	}
	if filter.SubjectID != "" {
		if !isValidID(filter.SubjectID) {
			where.add("FALSE")
		} else {
			where.add("t.subject_id = ?", filter.SubjectID)
		}
	}
	return where
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	if !isValidID(t.SubjectID) {
		return teacher.Teacher{}, teacher.ErrInvalidSubject
	}
	id := uuid.New().String()
	q := repo.db.Rebind("INSERT INTO teachers (id, full_name, subject_id) VALUES (?, ?, ?)")
	if _, err := repo.db.ExecContext(ctx, q, id, t.FullName, t.SubjectID); err != nil {
		return teacher.Teacher{}, repo.mapErr(err, "inserting teacher")
	}
	return repo.GetTeacher(ctx, id)
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter *teacher.QueryFilter, ordering []core.DBOrdering) ([]teacher.Teacher, error) {
	where := repo.where(filter)
	orderBy, err := orderByClause(ordering, []core.DBOrdering{{Field: "full_name", Ascending: true}}, teacherOrdering)
	if err != nil {
		return nil, err
	}

	var rows []teacherRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(teacherSelect+where.String()+orderBy), where.args...); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}

	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.unwrap())
	}
	return teachers, nil
}

func (repo teacherRepository) CountTeachers(ctx context.Context, filter *teacher.QueryFilter) (int, error) {
	where := repo.where(filter)
	var cnt int
	if err := sqlx.GetContext(ctx, repo.db, &cnt, repo.db.Rebind("SELECT COUNT(*) FROM teachers t"+where.String()), where.args...); err != nil {
		return 0, errors.Wrap(err, "counting teachers")
	}
	return cnt, nil
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	if !isValidID(id) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	var row teacherRow
	if err := sqlx.GetContext(ctx, repo.db, &row, repo.db.Rebind(teacherSelect+" WHERE t.id = ?"), id); err != nil {
		return teacher.Teacher{}, repo.mapErr(err, "finding teacher")
	}
	return row.unwrap(), nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	if !isValidID(t.ID) {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	if !isValidID(t.SubjectID) {
		return teacher.Teacher{}, teacher.ErrInvalidSubject
	}
	q := repo.db.Rebind("UPDATE teachers SET full_name = ?, subject_id = ? WHERE id = ?")
	res, err := repo.db.ExecContext(ctx, q, t.FullName, t.SubjectID, t.ID)
	if err != nil {
		return teacher.Teacher{}, repo.mapErr(err, "updating teacher")
	}
	if cnt, err := res.RowsAffected(); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	} else if cnt == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) (int, error) {
	if ids = validIDs(ids); len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In("DELETE FROM teachers WHERE id IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "building teacher delete query")
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(q), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting teachers")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting teachers")
	}
	return int(cnt), nil
}
