package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

var subjectOrdering = map[string]func(a, b subject.Subject) int{
	"id":   func(a, b subject.Subject) int { return strings.Compare(a.ID, b.ID) },
	"name": func(a, b subject.Subject) int { return strings.Compare(a.Name, b.Name) },
}

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) query() []subject.Subject {
	subjects := make([]subject.Subject, 0, len(repo.db.subjects))
	for _, s := range repo.db.subjects {
		subjects = append(subjects, *s)
	}
	return subjects
}

func (repo *subjectRepository) nameTaken(name string, excluded map[string]struct{}) bool {
	for _, s := range repo.db.subjects {
		if _, ok := excluded[s.ID]; !ok && s.Name == name {
			return true
		}
	}
	return false
}

func (repo *subjectRepository) CheckNameUniqueness(_ context.Context, name string, excluded ...subject.Subject) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0, len(excluded))
	for _, s := range excluded {
		ids = append(ids, s.ID)
	}
	if repo.nameTaken(name, idSet(ids)) {
		return subject.ErrNameExists
	}
	return nil
}

func (repo *subjectRepository) CreateSubject(_ context.Context, subj subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.nameTaken(subj.Name, nil) {
		return subject.Subject{}, subject.ErrNameExists
	}
	subj.ID = uuid.New().String()
	repo.db.subjects[subj.ID] = &subj
	return subj, nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, filter *subject.QueryFilter, ordering []core.DBOrdering) ([]subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := repo.query()
	if filter != nil && filter.Search != "" {
		filtered := make([]subject.Subject, 0, len(subjects))
		for _, s := range subjects {
			if contains(s.Name, filter.Search) {
				filtered = append(filtered, s)
			}
		}
		subjects = filtered
	}

	defaults := []core.DBOrdering{{Field: "name", Ascending: true}}
	if err := orderBy(subjects, ordering, defaults, subjectOrdering); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, filter subject.GetFilter) (subject.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != "" {
		if s, ok := repo.db.subjects[filter.ID]; ok {
			return *s, nil
		}
		return subject.Subject{}, subject.ErrNotFound
	}
	if filter.Name != "" {
		for _, s := range repo.db.subjects {
			if s.Name == filter.Name {
				return *s, nil
			}
		}
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, subj subject.Subject) (subject.Subject, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.subjects[subj.ID]
	if !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	if repo.nameTaken(subj.Name, idSet([]string{subj.ID})) {
		return subject.Subject{}, subject.ErrNameExists
	}
	orig.Name = subj.Name
	orig.Description = subj.Description
	return *orig, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(_ context.Context, ids ...string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	var cnt int
	deleted := idSet(ids)
	for id := range deleted {
		if _, ok := repo.db.subjects[id]; ok {
			delete(repo.db.subjects, id)
			cnt++
		}
	}
	// ON DELETE CASCADE
	for id, t := range repo.db.teachers {
		if _, ok := deleted[t.SubjectID]; ok {
			delete(repo.db.teachers, id)
		}
	}
	return cnt, nil
}
