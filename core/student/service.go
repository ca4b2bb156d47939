package student

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrRegisterExists = errors.New("a student with this register number already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryStudents returns the students matching filter, ordered by register number.
		QueryStudents(ctx context.Context, filter ClassFilter) ([]Student, error)
		GetStudent(ctx context.Context, filter GetFilter) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, register string, exclStudents ...Student) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		Query(ctx context.Context, filter ClassFilter) ([]Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) CheckUniqueness(ctx context.Context, register string, exclStudents ...Student) error {
	std, err := svc.repo.GetStudent(ctx, GetFilter{Register: register})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil
		}
		return errors.Wrap(err, "finding student by register")
	}
	for _, excl := range exclStudents {
		if excl.ID == std.ID {
			return nil
		}
	}
	return core.NewValidationError(ErrRegisterExists, core.FieldError{Field: "register", Error: ErrRegisterExists.Error()})
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	return svc.repo.CreateStudent(ctx, Student{
		ID:         uuid.NewString(),
		Name:       ns.Name,
		Register:   ns.Register,
		Department: ns.Department,
		Year:       ns.Year,
		Section:    ns.Section,
		Phone:      ns.Phone,
		Email:      ns.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *service) Query(ctx context.Context, filter ClassFilter) ([]Student, error) {
	filter.Clean()
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	if id == "" {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudent(ctx, GetFilter{ID: id})
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std, err := svc.GetByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	std.Name = us.Name
	std.Register = us.Register
	std.Department = us.Department
	std.Year = us.Year
	std.Section = us.Section
	std.Phone = us.Phone
	std.Email = us.Email
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
