package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
)

var classOrdering = map[string]func(a, b schoolclass.SchoolClass) int{
	"id":   func(a, b schoolclass.SchoolClass) int { return strings.Compare(a.ID, b.ID) },
	"name": func(a, b schoolclass.SchoolClass) int { return strings.Compare(a.Name, b.Name) },
}

type classRepository struct {
	db *DB
}

var _ schoolclass.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) schoolclass.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) query() []schoolclass.SchoolClass {
	classes := make([]schoolclass.SchoolClass, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, *c)
	}
	return classes
}

func (repo *classRepository) nameTaken(name string, excluded map[string]struct{}) bool {
	for _, c := range repo.db.classes {
		if _, ok := excluded[c.ID]; !ok && c.Name == name {
			return true
		}
	}
	return false
}

func (repo *classRepository) CheckNameUniqueness(_ context.Context, name string, excluded ...schoolclass.SchoolClass) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0, len(excluded))
	for _, c := range excluded {
		ids = append(ids, c.ID)
	}
	if repo.nameTaken(name, idSet(ids)) {
		return schoolclass.ErrNameExists
	}
	return nil
}

func (repo *classRepository) CreateClass(_ context.Context, class schoolclass.SchoolClass) (schoolclass.SchoolClass, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.nameTaken(class.Name, nil) {
		return schoolclass.SchoolClass{}, schoolclass.ErrNameExists
	}
	class.ID = uuid.New().String()
	repo.db.classes[class.ID] = &class
	return class, nil
}

func (repo *classRepository) QueryClasses(_ context.Context, filter *schoolclass.QueryFilter, ordering []core.DBOrdering) ([]schoolclass.SchoolClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := repo.query()
	if filter != nil && filter.Search != "" {
		filtered := make([]schoolclass.SchoolClass, 0, len(classes))
		for _, c := range classes {
			if contains(c.Name, filter.Search) {
				filtered = append(filtered, c)
			}
		}
		classes = filtered
	}

	defaults := []core.DBOrdering{{Field: "name", Ascending: true}}
	if err := orderBy(classes, ordering, defaults, classOrdering); err != nil {
		return nil, err
	}
	return classes, nil
}

func (repo *classRepository) GetClass(_ context.Context, filter schoolclass.GetFilter) (schoolclass.SchoolClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != "" {
		if c, ok := repo.db.classes[filter.ID]; ok {
			return *c, nil
		}
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}
	if filter.Name != "" {
		for _, c := range repo.db.classes {
			if c.Name == filter.Name {
				return *c, nil
			}
		}
	}
	return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
}

func (repo *classRepository) UpdateClass(_ context.Context, class schoolclass.SchoolClass) (schoolclass.SchoolClass, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.classes[class.ID]
	if !ok {
		return schoolclass.SchoolClass{}, schoolclass.ErrNotFound
	}
	if repo.nameTaken(class.Name, idSet([]string{class.ID})) {
		return schoolclass.SchoolClass{}, schoolclass.ErrNameExists
	}
	orig.Name = class.Name
	return *orig, nil
}

func (repo *classRepository) DeleteClassesByID(_ context.Context, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	deleted := idSet(ids)
	for id := range deleted {
		if _, ok := repo.db.classes[id]; ok {
			delete(repo.db.classes, id)
			cnt++
		}
	}
	// ON DELETE CASCADE
	for id, s := range repo.db.students {
		if _, ok := deleted[s.SchoolClassID]; ok {
			delete(repo.db.students, id)
		}
	}
	return cnt, nil
}
