package schoolclass

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound   = errors.New("class not found")
	ErrNameExists = errors.New("a class with this name already exists")
)

// OrderingFields are the fields classes can be ordered by.
var OrderingFields = []string{"id", "name"}

type Repository interface {
	CheckNameUniqueness(ctx context.Context, name string, excluded ...SchoolClass) error
	CreateClass(ctx context.Context, class SchoolClass) (SchoolClass, error)
	QueryClasses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]SchoolClass, error)
	GetClass(ctx context.Context, filter GetFilter) (SchoolClass, error)
	UpdateClass(ctx context.Context, class SchoolClass) (SchoolClass, error)
	// DeleteClassesByID deletes classes (and, by cascade, their students) and returns the number of deleted classes.
	DeleteClassesByID(ctx context.Context, ids ...string) (int, error)
}

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) checkUniqueness(ctx context.Context, name string, excluded ...SchoolClass) error {
	if err := svc.repo.CheckNameUniqueness(ctx, name, excluded...); err != nil {
		if errors.Is(err, ErrNameExists) {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return errors.Wrap(err, "checking class uniqueness")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (SchoolClass, error) {
	if err := nc.Validate(ctx, svc.validate, svc); err != nil {
		return SchoolClass{}, err
	}
	return svc.repo.CreateClass(ctx, SchoolClass{Name: nc.Name})
}

// GetOrCreate returns the class named `name`, creating it if it does not exist yet.
func (svc *Service) GetOrCreate(ctx context.Context, name string) (SchoolClass, bool, error) {
	class, err := svc.GetByName(ctx, name)
	if err == nil {
		return class, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return SchoolClass{}, false, err
	}
	class, err = svc.Create(ctx, NewClass{Name: name})
	if err != nil {
		return SchoolClass{}, false, err
	}
	return class, true, nil
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]SchoolClass, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryClasses(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id string) (SchoolClass, error) {
	return svc.repo.GetClass(ctx, GetFilter{ID: core.CleanString(id)})
}

func (svc *Service) GetByName(ctx context.Context, name string) (SchoolClass, error) {
	return svc.repo.GetClass(ctx, GetFilter{Name: core.CleanString(name)})
}

// GetByIDOrName tries `ref` as an ID first, then as a Name.
func (svc *Service) GetByIDOrName(ctx context.Context, ref string) (SchoolClass, error) {
	class, err := svc.GetByID(ctx, ref)
	if errors.Is(err, ErrNotFound) {
		return svc.GetByName(ctx, ref)
	}
	return class, err
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (SchoolClass, error) {
	class, err := svc.GetByID(ctx, id)
	if err != nil {
		return SchoolClass{}, err
	}
	if err := uc.Validate(ctx, class, svc.validate, svc); err != nil {
		return SchoolClass{}, err
	}

	if uc.Name != nil {
		class.Name = *uc.Name
	}
	return svc.repo.UpdateClass(ctx, class)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}
