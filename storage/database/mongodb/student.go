package mongodb

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	"github.com/Rashad2003/Student-Attendance-Management/storage/database"
)

type studentDoc struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Register   string    `bson:"register"`
	Department string    `bson:"department"`
	Year       string    `bson:"year"`
	Section    string    `bson:"section"`
	Phone      string    `bson:"phone"`
	Email      string    `bson:"email,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

// classQuery translates f into a MongoDB filter; department is matched as a
// case-insensitive substring, year and section exactly.
func classQuery(f student.ClassFilter) bson.M {
	q := bson.M{}
	if f.Department != "" {
		q["department"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Department), Options: "i"}
	}
	if f.Year != "" {
		q["year"] = f.Year
	}
	if f.Section != "" {
		q["section"] = f.Section
	}
	return q
}

type studentRepository struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepository{coll: db.Collection(database.StudentCollection)}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if _, err := repo.coll.InsertOne(ctx, studentDoc(std)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, student.ErrRegisterExists
		}
		return student.Student{}, wrapErr(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.ClassFilter) ([]student.Student, error) {
	cur, err := repo.coll.Find(ctx, classQuery(filter), options.Find().SetSort(bson.D{{Key: "register", Value: 1}}))
	if err != nil {
		return nil, wrapErr(err, "querying students")
	}
	var docs []studentDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, wrapErr(err, "decoding students")
	}

	students := make([]student.Student, 0, len(docs))
	for _, d := range docs {
		students = append(students, student.Student(d))
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, filter student.GetFilter) (student.Student, error) {
	var q bson.M
	switch {
	case filter.ID != "":
		q = bson.M{"_id": filter.ID}
	case filter.Register != "":
		q = bson.M{"register": filter.Register}
	default:
		return student.Student{}, student.ErrNotFound
	}

	var doc studentDoc
	if err := repo.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, wrapErr(err, "finding student")
	}
	return student.Student(doc), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": std.ID}, studentDoc(std))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return student.Student{}, student.ErrRegisterExists
		}
		return student.Student{}, wrapErr(err, "updating student")
	}
	if res.MatchedCount == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrapErr(err, "deleting student")
	}
	if res.DeletedCount == 0 {
		return student.ErrNotFound
	}
	return nil
}
