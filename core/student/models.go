package student

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

// Student is a roster entry. Phone is the parent's contact number.
type Student struct {
	ID         string    `json:"_id"`
	Name       string    `json:"name"`
	Register   string    `json:"register"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
	Section    string    `json:"section"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"` // guardian
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewStudent contains information needed to add a Student to the roster.
type NewStudent struct {
	Name       string `json:"name" validate:"required"`
	Register   string `json:"register" validate:"required,code"`
	Department string `json:"department" validate:"required"`
	Year       string `json:"year" validate:"required"`
	Section    string `json:"section" validate:"required"`
	Phone      string `json:"phone" validate:"required,e164"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Register = core.CleanString(ns.Register)
	ns.Department = core.CleanString(ns.Department)
	ns.Year = core.CleanString(ns.Year)
	ns.Section = core.CleanString(ns.Section)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
}

func (ns *NewStudent) Validate(ctx context.Context, validate *validator.Validate, svc ServiceInterface) error {
	ns.Clean()
	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.Register)
}

// UpdateStudent defines what information may be provided to modify a Student.
// Empty fields keep their current value.
type UpdateStudent struct {
	Name       string `json:"name"`
	Register   string `json:"register" validate:"omitempty,code"`
	Department string `json:"department"`
	Year       string `json:"year"`
	Section    string `json:"section"`
	Phone      string `json:"phone" validate:"omitempty,e164"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (us *UpdateStudent) Validate(ctx context.Context, orig Student, validate *validator.Validate, svc ServiceInterface) error {
	keep := func(val *string, origVal string, lower ...bool) {
		if v := core.CleanString(*val, lower...); v != "" {
			*val = v
		} else {
			*val = origVal
		}
	}
	keep(&us.Name, orig.Name)
	keep(&us.Register, orig.Register)
	keep(&us.Department, orig.Department)
	keep(&us.Year, orig.Year)
	keep(&us.Section, orig.Section)
	keep(&us.Phone, orig.Phone)
	keep(&us.Email, orig.Email, true /* lower */)

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, us.Register, orig)
}

// ClassFilter selects the students of a class.
// Department is matched case-insensitively as a substring; Year and Section must match exactly.
// Empty fields are ignored.
type ClassFilter struct {
	Department string `query:"department" json:"department"`
	Year       string `query:"year" json:"year"`
	Section    string `query:"section" json:"section"`
}

func (f *ClassFilter) Clean() {
	f.Department = core.CleanString(f.Department)
	f.Year = core.CleanString(f.Year)
	f.Section = core.CleanString(f.Section)
}

func (f ClassFilter) IsEmpty() bool {
	return f.Department == "" && f.Year == "" && f.Section == ""
}

// GetFilter selects a single Student; the first non-empty field wins.
type GetFilter struct {
	ID       string
	Register string
}
