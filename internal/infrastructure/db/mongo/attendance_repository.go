package mongo

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

const collectionAttendance = "attendance"

type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

// Upsert inserts or updates the event for its (student, course, date)
// key. The unique index makes concurrent upserts collapse into one row.
func (r *AttendanceRepository) Upsert(ctx context.Context, event domain.PresenceEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"student_id": event.StudentID,
		"course_id":  event.CourseID,
		"date":       event.Date,
	}
	update := bson.M{"$set": bson.M{"status": event.Status}}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// Count returns the number of ledger rows matching filter.
func (r *AttendanceRepository) Count(ctx context.Context, filter ports.LedgerFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, ledgerQuery(filter))
}

// DistinctDates returns the distinct event dates matching filter,
// sorted ascending.
func (r *AttendanceRepository) DistinctDates(ctx context.Context, filter ports.LedgerFilter) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "date", ledgerQuery(filter))
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(values))
	for _, v := range values {
		if date, ok := v.(string); ok {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// DeleteByStudent removes every ledger row for a student and reports
// how many rows were removed.
func (r *AttendanceRepository) DeleteByStudent(ctx context.Context, studentID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes on the attendance collection.
// The unique compound index is what makes Upsert atomic per logical key.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "student_id", Value: 1},
				{Key: "course_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// ledgerQuery translates a ports.LedgerFilter into a bson filter. All
// set fields combine with AND; DatePrefix becomes an anchored regex.
func ledgerQuery(f ports.LedgerFilter) bson.M {
	query := bson.M{}
	if f.CourseID != "" {
		query["course_id"] = f.CourseID
	}
	if len(f.CourseIDs) > 0 {
		query["course_id"] = bson.M{"$in": f.CourseIDs}
	}
	if f.StudentID != "" {
		query["student_id"] = f.StudentID
	}
	if len(f.StudentIDs) > 0 {
		query["student_id"] = bson.M{"$in": f.StudentIDs}
	}
	if f.Date != "" {
		query["date"] = f.Date
	}
	if len(f.Dates) > 0 {
		query["date"] = bson.M{"$in": f.Dates}
	}
	if f.DatePrefix != "" {
		query["date"] = primitive.Regex{Pattern: "^" + f.DatePrefix}
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	return query
}
