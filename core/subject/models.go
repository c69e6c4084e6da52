package subject

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

const (
	VerboseName       = "Subject"
	VerboseNamePlural = "Subjects"

	NameMaxLen = 100
)

// Subject is a taught discipline (eg. Mathematics).
type Subject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s Subject) String() string {
	return s.Name
}

// NewSubject contains information needed to create a new Subject.
type NewSubject struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description"`
}

func (ns *NewSubject) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Description = core.CleanString(ns.Description)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, ns.Name)
}

// UpdateSubject defines what information may be provided to modify an existing Subject.
// nil fields are left untouched.
type UpdateSubject struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=100"`
	Description *string `json:"description"`
}

func (us *UpdateSubject) Validate(ctx context.Context, subj Subject, validate *validator.Validate, svc *Service) error {
	us.Name = core.CleanStringPtr(us.Name)
	us.Description = core.CleanStringPtr(us.Description)

	if err := validate.Struct(us); err != nil {
		return err
	}
	if us.Name != nil {
		return svc.checkUniqueness(ctx, *us.Name, subj)
	}
	return nil
}

type QueryFilter struct {
	Search string `json:"search"` // case-insensitive match on Name
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
}

// GetFilter looks up a single Subject by ID or (exact) Name; ID wins when both are set.
type GetFilter struct {
	ID   string
	Name string
}
