package echoapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/core/user"
	"github.com/Rashad2003/Student-Attendance-Management/testutil"
)

func studentsData(t *testing.T, students ...student.Student) []byte {
	if students == nil {
		students = []student.Student{}
	}
	return marshallObj(t, jsonObj{"success": true, "students": students})
}

func Test_studentApi(t *testing.T) {
	db.Reset()

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", "", user.RoleAdmin, true)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty, true)
	adminToken := getToken(t, admin)
	facultyToken := getToken(t, faculty)

	s1 := testutil.CreateStudent(t, stdRepo, "Asha", "CSE001", "CSE", "3", "A", "+919800000001")
	ece := testutil.CreateStudent(t, stdRepo, "Meena", "ECE001", "ECE", "3", "A", "+919800000003")

	newStudent := func(register, phone string) []byte {
		return marshallObj(t, jsonObj{
			"name": "Ravi", "register": register, "department": "CSE", "year": "3", "section": "A", "phone": phone,
		})
	}

	runHTTPTests(t, []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/api/student/add", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{
			name: "Missing fields", method: http.MethodPost, path: "/api/student/add", token: facultyToken,
			body:     marshallObj(t, jsonObj{"name": "Ravi", "register": "CSE002", "department": "CSE", "year": "3", "phone": "+919800000002"}),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, errorResponse{
				Message: "Missing required fields",
				Errors:  map[string]string{"section": "this field is required"},
			}),
		},
		{
			name: "Invalid phone", method: http.MethodPost, path: "/api/student/add", token: facultyToken,
			body: newStudent("CSE002", "98000"), wantCode: http.StatusBadRequest,
		},
		{
			name: "Register taken", method: http.MethodPost, path: "/api/student/add", token: facultyToken,
			body:     newStudent(s1.Register, "+919800000002"),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, errorResponse{
				Message: student.ErrRegisterExists.Error(),
				Errors:  map[string]string{"register": student.ErrRegisterExists.Error()},
			}),
		},
		{name: "Added", method: http.MethodPost, path: "/api/student/add", token: facultyToken, body: newStudent("CSE002", "+919800000002"), wantCode: http.StatusCreated},
		{name: "List class", path: "/api/student/list?department=ece&year=3&section=A", token: facultyToken, wantData: studentsData(t, ece)},
		{name: "List empty class", path: "/api/student/list?department=MECH", token: facultyToken, wantData: studentsData(t)},
		{
			name: "Update requires admin", method: http.MethodPut, path: "/api/student/update/" + s1.ID, token: facultyToken,
			body: marshallObj(t, jsonObj{"phone": "+919811111111"}), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "Update unknown", method: http.MethodPut, path: "/api/student/update/lol", token: adminToken,
			body: marshallObj(t, jsonObj{"phone": "+919811111111"}), wantCode: http.StatusNotFound, wantData: marshallObj(t, errorResponse{Message: "Student not found"}),
		},
		{name: "Updated", method: http.MethodPut, path: "/api/student/update/" + s1.ID, token: adminToken, body: marshallObj(t, jsonObj{"phone": "+919811111111"})},
		{
			name: "Delete requires admin", method: http.MethodDelete, path: "/api/student/delete/" + ece.ID, token: facultyToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "Deleted", method: http.MethodDelete, path: "/api/student/delete/" + ece.ID, token: adminToken,
			wantData: marshallObj(t, messageResponse{Success: true, Message: "Student deleted successfully"}),
		},
		{
			name: "Delete unknown", method: http.MethodDelete, path: "/api/student/delete/" + ece.ID, token: adminToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, errorResponse{Message: "Student not found"}),
		},
	})

	ctx := context.Background()
	got, err := stdRepo.GetStudent(ctx, student.GetFilter{ID: s1.ID})
	require.NoError(t, err)
	assert.Equal(t, "+919811111111", got.Phone)
	assert.Equal(t, s1.Name, got.Name)

	ravi, err := stdRepo.GetStudent(ctx, student.GetFilter{Register: "CSE002"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", ravi.Name)

	stds, err := stdRepo.QueryStudents(ctx, student.ClassFilter{})
	require.NoError(t, err)
	assert.Len(t, stds, 2)
}
