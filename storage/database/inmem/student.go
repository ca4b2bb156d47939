package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/Rashad2003/Student-Attendance-Management/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

// matchClass applies student.ClassFilter semantics to a single class placement.
func matchClass(filter student.ClassFilter, department, year, section string) bool {
	if filter.Department != "" && !strings.Contains(strings.ToLower(department), strings.ToLower(filter.Department)) {
		return false
	}
	if filter.Year != "" && year != filter.Year {
		return false
	}
	if filter.Section != "" && section != filter.Section {
		return false
	}
	return true
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.ClassFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0)
	for _, std := range repo.db.table {
		if matchClass(filter, std.Department, std.Year, std.Section) {
			students = append(students, *std)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Register < students[j].Register })
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != "" {
		if std, ok := repo.db.table[filter.ID]; ok {
			return *std, nil
		}
		return student.Student{}, student.ErrNotFound
	}
	if filter.Register != "" {
		for _, std := range repo.db.table {
			if std.Register == filter.Register {
				return *std, nil
			}
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
