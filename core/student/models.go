package student

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schoolclass"
)

const (
	VerboseName       = "Student"
	VerboseNamePlural = "Students"

	FullNameMaxLen = 150
)

// Student is a member of one SchoolClass.
type Student struct {
	ID            string                   `json:"id"`
	FullName      string                   `json:"full_name"`
	SchoolClassID string                   `json:"school_class_id"`
	SchoolClass   *schoolclass.SchoolClass `json:"school_class,omitempty"` // always loaded on reads
}

// String returns "<full name> – <class name>".
func (s Student) String() string {
	var className string
	if s.SchoolClass != nil {
		className = s.SchoolClass.Name
	}
	return fmt.Sprintf("%s – %s", s.FullName, className)
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	FullName      string `json:"full_name" validate:"required,notblank,max=150"`
	SchoolClassID string `json:"school_class_id" validate:"required"`
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) (schoolclass.SchoolClass, error) {
	ns.FullName = core.CleanString(ns.FullName)
	ns.SchoolClassID = core.CleanString(ns.SchoolClassID)

	if err := validate.Struct(ns); err != nil {
		return schoolclass.SchoolClass{}, err
	}
	return svc.resolveClass(ctx, ns.SchoolClassID)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// nil fields are left untouched.
type UpdateStudent struct {
	FullName      *string `json:"full_name" validate:"omitnil,notblank,max=150"`
	SchoolClassID *string `json:"school_class_id" validate:"omitnil,notblank"`
}

func (us *UpdateStudent) Validate(ctx context.Context, validate *validator.Validate, svc *Service) (*schoolclass.SchoolClass, error) {
	us.FullName = core.CleanStringPtr(us.FullName)
	us.SchoolClassID = core.CleanStringPtr(us.SchoolClassID)

	if err := validate.Struct(us); err != nil {
		return nil, err
	}
	if us.SchoolClassID == nil {
		return nil, nil
	}
	class, err := svc.resolveClass(ctx, *us.SchoolClassID)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// QueryFilter applies AND operation on set fields.
type QueryFilter struct {
	Search        string `json:"search"` // case-insensitive match on FullName
	SchoolClassID string `json:"school_class_id"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.SchoolClassID = core.CleanString(f.SchoolClassID)
}
