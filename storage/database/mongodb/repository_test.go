package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database"
	"github.com/Rashad2003/Student-Attendance-Management/testutil"
)

// TestRepositories runs against a live deployment, eg:
//  TEST_MONGODB_URI=mongodb://localhost:27017 go test ./storage/database/mongodb
func TestRepositories(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	conf := core.NewTestConfig()
	conf.Database.Engine = core.EngineMongoDB
	conf.Database.URI = uri
	conf.Database.Name = "attendance_test_" + uuid.NewString()[:8]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, conf)
	if err != nil {
		t.Fatalf("database.Open(): %v", err)
	}
	defer func() {
		_ = database.Drop(context.Background(), db)
		_ = database.Close(context.Background(), db)
	}()

	testutil.RepositoryTest{
		Users:      NewUserRepository(db),
		Students:   NewStudentRepository(db),
		Attendance: NewAttendanceRepository(db),
		Reset: func(t *testing.T) {
			if err := database.Drop(ctx, db); err != nil {
				t.Fatalf("database.Drop(): %v", err)
			}
			if err := database.EnsureIndexes(ctx, db); err != nil {
				t.Fatalf("database.EnsureIndexes(): %v", err)
			}
		},
	}.Run(t)
}
