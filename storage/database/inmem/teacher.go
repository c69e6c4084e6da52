package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/teacher"
)

var teacherOrdering = map[string]func(a, b teacher.Teacher) int{
	"id":        func(a, b teacher.Teacher) int { return strings.Compare(a.ID, b.ID) },
	"full_name": func(a, b teacher.Teacher) int { return strings.Compare(a.FullName, b.FullName) },
	"subject":   func(a, b teacher.Teacher) int { return strings.Compare(a.Subject.Name, b.Subject.Name) },
}

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

// load returns a copy of `t` with its Subject attached.
func (repo *teacherRepository) load(t teacher.Teacher) teacher.Teacher {
	if subj, ok := repo.db.subjects[t.SubjectID]; ok {
		s := *subj
		t.Subject = &s
	}
	return t
}

func (repo *teacherRepository) filter(filter *teacher.QueryFilter) []teacher.Teacher {
	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		if filter != nil {
			if filter.Search != "" && !contains(t.FullName, filter.Search) {
				continue
			}
			if filter.SubjectID != "" && t.SubjectID != filter.SubjectID {
				continue
			}
		}
		teachers = append(teachers, repo.load(*t))
	}
	return teachers
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.subjects[t.SubjectID]; !ok {
		return teacher.Teacher{}, teacher.ErrInvalidSubject
	}
	t.ID = uuid.New().String()
	t.Subject = nil
	repo.db.teachers[t.ID] = &t
	return repo.load(t), nil
}

func (repo *teacherRepository) QueryTeachers(_ context.Context, filter *teacher.QueryFilter, ordering []core.DBOrdering) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := repo.filter(filter)
	defaults := []core.DBOrdering{{Field: "full_name", Ascending: true}}
	if err := orderBy(teachers, ordering, defaults, teacherOrdering); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (repo *teacherRepository) CountTeachers(_ context.Context, filter *teacher.QueryFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.filter(filter)), nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teachers[id]; ok {
		return repo.load(*t), nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.teachers[t.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	if _, ok := repo.db.subjects[t.SubjectID]; !ok {
		return teacher.Teacher{}, teacher.ErrInvalidSubject
	}
	orig.FullName = t.FullName
	orig.SubjectID = t.SubjectID
	return repo.load(*orig), nil
}

func (repo *teacherRepository) DeleteTeachersByID(_ context.Context, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for id := range idSet(ids) {
		if _, ok := repo.db.teachers[id]; ok {
			delete(repo.db.teachers, id)
			cnt++
		}
	}
	return cnt, nil
}
