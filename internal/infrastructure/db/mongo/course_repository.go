package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
)

const collectionCourses = "courses"

// CourseRepository reads the course catalogue. Documents written by
// this system carry hex-string ids, but the collection may also hold
// legacy documents keyed by raw ObjectIDs, so every ref lookup tries
// the ObjectID interpretation first and falls back to the plain string.
type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

// courseDoc tolerates both id encodings on decode.
type courseDoc struct {
	ID   interface{} `bson:"_id"`
	Name string      `bson:"name"`
}

func (d courseDoc) toDomain() *domain.Course {
	course := &domain.Course{Name: d.Name}
	switch id := d.ID.(type) {
	case primitive.ObjectID:
		course.ID = id.Hex()
	case string:
		course.ID = id
	}
	return course
}

// FindAll lists every course, sorted by name.
func (r *CourseRepository) FindAll(ctx context.Context) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	courses := make([]*domain.Course, len(docs))
	for i, d := range docs {
		courses[i] = d.toDomain()
	}
	return courses, nil
}

// FindByRef resolves a course reference: ObjectID interpretation first,
// then the plain string id.
func (r *CourseRepository) FindByRef(ctx context.Context, ref string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, id := range refVariants(ref) {
		var doc courseDoc
		err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
		if err == nil {
			return doc.toDomain(), nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
	}
	return nil, domain.ErrCourseNotFound
}

// FindByRefs resolves a set of course references with the same ordered
// fallback. Unknown refs are silently dropped; callers treat the result
// as the resolvable subset.
func (r *CourseRepository) FindByRefs(ctx context.Context, refs []string) ([]*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids := make([]interface{}, 0, 2*len(refs))
	for _, ref := range refs {
		for _, id := range refVariants(ref) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.col.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []courseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	courses := make([]*domain.Course, len(docs))
	for i, d := range docs {
		courses[i] = d.toDomain()
	}
	return courses, nil
}

// refVariants orders the candidate id encodings for a reference: the
// ObjectID form when the ref parses as one, then the raw string.
func refVariants(ref string) []interface{} {
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		return []interface{}{oid, ref}
	}
	return []interface{}{ref}
}
