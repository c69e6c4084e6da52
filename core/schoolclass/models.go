package schoolclass

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

const (
	VerboseName       = "Class"
	VerboseNamePlural = "Classes"

	NameMaxLen = 20
)

// SchoolClass is a named cohort of students (eg. "5-A" or "10-B").
type SchoolClass struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c SchoolClass) String() string {
	return c.Name
}

// NewClass contains information needed to create a new SchoolClass.
type NewClass struct {
	Name string `json:"name" validate:"required,notblank,max=20"`
}

func (nc *NewClass) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nc.Name = core.CleanString(nc.Name)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nc.Name)
}

// UpdateClass defines what information may be provided to modify an existing SchoolClass.
type UpdateClass struct {
	Name *string `json:"name" validate:"omitnil,notblank,max=20"`
}

func (uc *UpdateClass) Validate(ctx context.Context, class SchoolClass, validate *validator.Validate, svc *Service) error {
	uc.Name = core.CleanStringPtr(uc.Name)

	if err := validate.Struct(uc); err != nil {
		return err
	}
	if uc.Name != nil {
		return svc.checkUniqueness(ctx, *uc.Name, class)
	}
	return nil
}

type QueryFilter struct {
	Search string `json:"search"` // case-insensitive match on Name
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
}

// GetFilter looks up a single SchoolClass by ID or (exact) Name; ID wins when both are set.
type GetFilter struct {
	ID   string
	Name string
}
