package teacher

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

var (
	// errors
	ErrNotFound       = errors.New("teacher not found")
	ErrInvalidSubject = errors.New("subject does not exist")
)

// OrderingFields are the fields teachers can be ordered by.
var OrderingFields = []string{"id", "full_name", "subject"}

type (
	Repository interface {
		// CreateTeacher fails with ErrInvalidSubject if Teacher.SubjectID does not reference an existing Subject.
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		QueryTeachers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error)
		CountTeachers(ctx context.Context, filter *QueryFilter) (int, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) (int, error)
	}

	SubjectGetter interface {
		GetByID(ctx context.Context, id string) (subject.Subject, error)
	}

	Service struct {
		repo     Repository
		subjects SubjectGetter
		validate *validator.Validate
	}
)

func NewService(repo Repository, subjects SubjectGetter, validate *validator.Validate) *Service {
	return &Service{repo: repo, subjects: subjects, validate: validate}
}

func (svc *Service) resolveSubject(ctx context.Context, id string) (subject.Subject, error) {
	subj, err := svc.subjects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, subject.ErrNotFound) {
			return subject.Subject{}, core.NewValidationError(
				ErrInvalidSubject,
				core.FieldError{Field: "subject_id", Error: ErrInvalidSubject.Error()},
			)
		}
		return subject.Subject{}, errors.Wrap(err, "resolving subject")
	}
	return subj, nil
}

// CheckFullName validates a full name on its own, before the rest of the NewTeacher is known.
func (svc *Service) CheckFullName(fullName string) error {
	n := NewTeacher{FullName: core.CleanString(fullName)}
	return svc.validate.StructPartial(&n, "FullName")
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	subj, err := nt.Validate(ctx, svc.validate, svc)
	if err != nil {
		return Teacher{}, err
	}
	return svc.repo.CreateTeacher(ctx, Teacher{
		FullName:  nt.FullName,
		SubjectID: subj.ID,
		Subject:   &subj,
	})
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryTeachers(ctx, filter, ordering)
}

func (svc *Service) Count(ctx context.Context, filter *QueryFilter) (int, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.CountTeachers(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, core.CleanString(id))
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	t, err := svc.GetByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	subj, err := ut.Validate(ctx, svc.validate, svc)
	if err != nil {
		return Teacher{}, err
	}

	if ut.FullName != nil {
		t.FullName = *ut.FullName
	}
	if subj != nil {
		t.SubjectID = subj.ID
		t.Subject = subj
	}
	return svc.repo.UpdateTeacher(ctx, t)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) (int, error) {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}
