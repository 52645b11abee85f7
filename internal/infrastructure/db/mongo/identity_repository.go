package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

const collectionUsers = "users"

type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionUsers)}
}

// Create inserts a new identity document, assigning a fresh id when the
// caller did not set one.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if identity.ID == "" {
		identity.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.col.InsertOne(ctx, identity)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrRollNoTaken
	}
	return err
}

// FindByID retrieves an identity by id.
func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var identity domain.Identity
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// FindByLogin resolves a login identifier as either an email or a roll
// number.
func (r *IdentityRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"email": identifier},
		bson.M{"roll_no": identifier},
	}}

	var identity domain.Identity
	err := r.col.FindOne(ctx, filter).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// FindByRollNo retrieves a student by roll number.
func (r *IdentityRepository) FindByRollNo(ctx context.Context, rollNo string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var identity domain.Identity
	err := r.col.FindOne(ctx, bson.M{"role": domain.RoleStudent, "roll_no": rollNo}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

// FindStudents returns the current roster matching filter, sorted by id
// so gallery order is stable across calls.
func (r *IdentityRepository) FindStudents(ctx context.Context, filter ports.StudentFilter) ([]*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"role": domain.RoleStudent}
	if filter.CourseID != "" {
		query["course_id"] = filter.CourseID
	}
	if len(filter.CourseIDs) > 0 {
		query["course_id"] = bson.M{"$in": filter.CourseIDs}
	}
	if filter.WithFace {
		query["face_template"] = bson.M{"$exists": true, "$ne": nil}
	}

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roster []*domain.Identity
	if err := cursor.All(ctx, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// UpdateStudent applies a partial update to a student record.
func (r *IdentityRepository) UpdateStudent(ctx context.Context, id string, update ports.StudentUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.RollNo != nil {
		set["roll_no"] = *update.RollNo
	}
	if update.CourseID != nil {
		set["course_id"] = *update.CourseID
	}
	if update.PasswordHash != nil {
		set["password"] = *update.PasswordHash
	}
	if len(set) == 0 {
		return domain.ErrNothingToUpdate
	}

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "role": domain.RoleStudent},
		bson.M{"$set": set},
	)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrRollNoTaken
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// ReplaceFaceTemplate swaps the whole enrolled template.
func (r *IdentityRepository) ReplaceFaceTemplate(ctx context.Context, id string, template domain.FaceTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "role": domain.RoleStudent},
		bson.M{"$set": bson.M{"face_template": template}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// DeleteStudent removes a student document. The ledger cascade is the
// service layer's responsibility.
func (r *IdentityRepository) DeleteStudent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "role": domain.RoleStudent})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "roll_no", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "course_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
