package student

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
)

var (
	// errors
	ErrNotFound     = errors.New("student not found")
	ErrInvalidClass = errors.New("class does not exist")
)

// OrderingFields are the fields students can be ordered by.
var OrderingFields = []string{"id", "full_name", "school_class"}

type (
	Repository interface {
		// CreateStudent fails with ErrInvalidClass if Student.SchoolClassID does not reference an existing SchoolClass.
		CreateStudent(ctx context.Context, s Student) (Student, error)
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		CountStudents(ctx context.Context, filter *QueryFilter) (int, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) (int, error)
	}

	ClassGetter interface {
		GetByID(ctx context.Context, id string) (schoolclass.SchoolClass, error)
	}

	Service struct {
		repo     Repository
		classes  ClassGetter
		validate *validator.Validate
	}
)

func NewService(repo Repository, classes ClassGetter, validate *validator.Validate) *Service {
	return &Service{repo: repo, classes: classes, validate: validate}
}

func (svc *Service) resolveClass(ctx context.Context, id string) (schoolclass.SchoolClass, error) {
	class, err := svc.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, schoolclass.ErrNotFound) {
			return schoolclass.SchoolClass{}, core.NewValidationError(
				ErrInvalidClass,
				core.FieldError{Field: "school_class_id", Error: ErrInvalidClass.Error()},
			)
		}
		return schoolclass.SchoolClass{}, errors.Wrap(err, "resolving class")
	}
	return class, nil
}

// CheckFullName validates a full name on its own, before the rest of the NewStudent is known.
func (svc *Service) CheckFullName(fullName string) error {
	n := NewStudent{FullName: core.CleanString(fullName)}
	return svc.validate.StructPartial(&n, "FullName")
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	class, err := ns.Validate(ctx, svc.validate, svc)
	if err != nil {
		return Student{}, err
	}
	return svc.repo.CreateStudent(ctx, Student{
		FullName:      ns.FullName,
		SchoolClassID: class.ID,
		SchoolClass:   &class,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *Service) Count(ctx context.Context, filter *QueryFilter) (int, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.CountStudents(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, core.CleanString(id))
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	s, err := svc.GetByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	class, err := us.Validate(ctx, svc.validate, svc)
	if err != nil {
		return Student{}, err
	}

	if us.FullName != nil {
		s.FullName = *us.FullName
	}
	if class != nil {
		s.SchoolClassID = class.ID
		s.SchoolClass = class
	}
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
