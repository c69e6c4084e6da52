package teacher

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/subject"
)

const (
	VerboseName       = "Teacher"
	VerboseNamePlural = "Teachers"

	FullNameMaxLen = 150
)

// Teacher is a staff member who teaches one Subject.
type Teacher struct {
	ID        string           `json:"id"`
	FullName  string           `json:"full_name"`
	SubjectID string           `json:"subject_id"`
	Subject   *subject.Subject `json:"subject,omitempty"` // always loaded on reads
}

// String returns "<full name> (<subject name>)".
func (t Teacher) String() string {
	var subjName string
	if t.Subject != nil {
		subjName = t.Subject.Name
	}
	return fmt.Sprintf("%s (%s)", t.FullName, subjName)
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	FullName  string `json:"full_name" validate:"required,notblank,max=150"`
	SubjectID string `json:"subject_id" validate:"required"`
}

func (nt *NewTeacher) Validate(ctx context.Context, validate *validator.Validate, svc *Service) (subject.Subject, error) {
	nt.FullName = core.CleanString(nt.FullName)
	nt.SubjectID = core.CleanString(nt.SubjectID)

	if err := validate.Struct(nt); err != nil {
		return subject.Subject{}, err
	}
	return svc.resolveSubject(ctx, nt.SubjectID)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
// nil fields are left untouched.
type UpdateTeacher struct {
	FullName  *string `json:"full_name" validate:"omitnil,notblank,max=150"`
	SubjectID *string `json:"subject_id" validate:"omitnil,notblank"`
}

func (ut *UpdateTeacher) Validate(ctx context.Context, validate *validator.Validate, svc *Service) (*subject.Subject, error) {
	ut.FullName = core.CleanStringPtr(ut.FullName)
	ut.SubjectID = core.CleanStringPtr(ut.SubjectID)

	if err := validate.Struct(ut); err != nil {
		return nil, err
	}
	if ut.SubjectID == nil {
		return nil, nil
	}
	subj, err := svc.resolveSubject(ctx, *ut.SubjectID)
	if err != nil {
		return nil, err
	}
	return &subj, nil
}

// QueryFilter applies AND operation on set fields.
type QueryFilter struct {
	Search    string `json:"search"` // case-insensitive match on FullName
	SubjectID string `json:"subject_id"`
}

func (f *QueryFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	f.SubjectID = core.CleanString(f.SubjectID)
}
