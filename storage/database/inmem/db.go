package inmemdb

import (
	"sync"

	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
)

type (
	DB struct {
		user       *userTable
		student    *studentTable
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Day
	}
)

func Open() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Day)},
	}
}

// Reset drops every record.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.student.Lock()
	db.student.table = make(map[string]*student.Student)
	db.student.Unlock()

	db.attendance.Lock()
	db.attendance.table = make(map[string]*attendance.Day)
	db.attendance.Unlock()
}
