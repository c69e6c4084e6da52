package subject

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound   = errors.New("subject not found")
	ErrNameExists = errors.New("a subject with this name already exists")
)

// OrderingFields are the fields subjects can be ordered by.
var OrderingFields = []string{"id", "name"}

type Repository interface {
	CheckNameUniqueness(ctx context.Context, name string, excluded ...Subject) error
	CreateSubject(ctx context.Context, subj Subject) (Subject, error)
	QuerySubjects(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error)
	GetSubject(ctx context.Context, filter GetFilter) (Subject, error)
	UpdateSubject(ctx context.Context, subj Subject) (Subject, error)
	// DeleteSubjectsByID deletes subjects (and, by cascade, their teachers) and returns the number of deleted subjects.
	DeleteSubjectsByID(ctx context.Context, ids ...string) (int, error)
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) checkUniqueness(ctx context.Context, name string, excluded ...Subject) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, excluded...); err != nil {
		if errors.Is(err, ErrNameExists) {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return errors.Wrap(err, "checking subject uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	if err := ns.Validate(ctx, svc.validate, svc); err != nil {
		return Subject{}, err
	}
	return svc.repo.CreateSubject(ctx, Subject{
		Name:        ns.Name,
		Description: ns.Description,
	})
}

// GetOrCreate returns the subject named `name`, creating it if it does not exist yet.
func (svc *Service) GetOrCreate(ctx context.Context, name string) (Subject, bool, error) {
	subj, err := svc.GetByName(ctx, name)
	if err == nil {
		return subj, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Subject{}, false, err
	}
	subj, err = svc.Create(ctx, NewSubject{Name: name})
	if err != nil {
		return Subject{}, false, err
	}
	return subj, true, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Subject, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QuerySubjects(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, GetFilter{ID: core.CleanString(id)})
}

func (svc *Service) GetByName(ctx context.Context, name string) (Subject, error) {
	return svc.repo.GetSubject(ctx, GetFilter{Name: core.CleanString(name)})
}

// GetByIDOrName tries `ref` as an ID first, then as a Name.
func (svc *Service) GetByIDOrName(ctx context.Context, ref string) (Subject, error) {
	subj, err := svc.GetByID(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		return svc.GetByName(ctx, ref)
	}
	return subj, err
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	subj, err := svc.GetByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if err := us.Validate(ctx, subj, svc.validate, svc); err != nil {
		return Subject{}, err
	}

	if us.Name != nil {
		subj.Name = *us.Name
	}
	if us.Description != nil {
		subj.Description = *us.Description
	}
	return svc.repo.UpdateSubject(ctx, subj)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}
