package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/student"
)

var studentOrdering = map[string]func(a, b student.Student) int{
	"id":           func(a, b student.Student) int { return strings.Compare(a.ID, b.ID) },
	"full_name":    func(a, b student.Student) int { return strings.Compare(a.FullName, b.FullName) },
	"school_class": func(a, b student.Student) int { return strings.Compare(a.SchoolClass.Name, b.SchoolClass.Name) },
}

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

// load returns a copy of `s` with its SchoolClass attached.
func (repo *studentRepository) load(s student.Student) student.Student {
	if class, ok := repo.db.classes[s.SchoolClassID]; ok {
		c := *class
		s.SchoolClass = &c
	}
	return s
}

func (repo *studentRepository) filter(filter *student.QueryFilter) []student.Student {
	students := make([]student.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		if filter != nil {
			if filter.Search != "" && !contains(s.FullName, filter.Search) {
				continue
			}
			if filter.SchoolClassID != "" && s.SchoolClassID != filter.SchoolClassID {
				continue
			}
		}
		students = append(students, repo.load(*s))
	}
	return students
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[s.SchoolClassID]; !ok {
		return student.Student{}, student.ErrInvalidClass
	}
	s.ID = uuid.New().String()
	s.SchoolClass = nil
	repo.db.students[s.ID] = &s
	return repo.load(s), nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.filter(filter)
	defaults := []core.DBOrdering{{Field: "full_name", Ascending: true}}
	if err := orderBy(students, ordering, defaults, studentOrdering); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) CountStudents(_ context.Context, filter *student.QueryFilter) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.filter(filter)), nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return repo.load(*s), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.students[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if _, ok := repo.db.classes[s.SchoolClassID]; !ok {
		return student.Student{}, student.ErrInvalidClass
	}
	orig.FullName = s.FullName
	orig.SchoolClassID = s.SchoolClassID
	return repo.load(*orig), nil
}

func (repo *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	for id := range idSet(ids) {
		if _, ok := repo.db.students[id]; ok {
			delete(repo.db.students, id)
			cnt++
		}
	}
	return cnt, nil
}
