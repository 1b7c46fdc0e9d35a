package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/etuition/etuition-api/app/models"
	"github.com/etuition/etuition-api/pkg/database"
)

var (
	_ UserRepository        = (*MongoUsers)(nil)
	_ TutorRepository       = (*MongoTutors)(nil)
	_ TuitionRepository     = (*MongoTuitions)(nil)
	_ ApplicationRepository = (*MongoApplications)(nil)
)

// NewMongo builds every repository on db.
func NewMongo(db *database.DB) Repositories {
	return Repositories{
		Users:        &MongoUsers{c: collection[models.User]{col: db.Collection(database.Users)}},
		Tutors:       &MongoTutors{c: collection[models.Tutor]{col: db.Collection(database.Tutors)}},
		Tuitions:     &MongoTuitions{c: collection[models.Tuition]{col: db.Collection(database.Tuitions)}},
		Applications: &MongoApplications{c: collection[models.Application]{col: db.Collection(database.Applications)}},
	}
}

// ObjectID parses a hex id, mapping malformed input to ErrInvalidID.
func ObjectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return oid, nil
}

func byID(hex string) (bson.M, error) {
	oid, err := ObjectID(hex)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid}, nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// collection holds the typed CRUD shared by the Mongo repositories.
type collection[T any] struct {
	col *mongo.Collection
}

func (c collection[T]) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := c.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.col.Name(), err)
	}

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", c.col.Name(), err)
	}
	return out, nil
}

func (c collection[T]) findOne(ctx context.Context, filter interface{}) (*T, error) {
	var out T
	err := c.col.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find one: %w", c.col.Name(), err)
	}
	return &out, nil
}

func (c collection[T]) count(ctx context.Context, filter interface{}) (int64, error) {
	n, err := c.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", c.col.Name(), err)
	}
	return n, nil
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("%s: insert: %w", c.col.Name(), err)
	}
	return nil
}

func (c collection[T]) update(ctx context.Context, filter, update interface{}) (UpdateResult, error) {
	res, err := c.col.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return UpdateResult{}, ErrDuplicate
		}
		return UpdateResult{}, fmt.Errorf("%s: update: %w", c.col.Name(), err)
	}
	return UpdateResult{MatchedCount: res.MatchedCount, ModifiedCount: res.ModifiedCount}, nil
}

func (c collection[T]) set(ctx context.Context, hex string, fields map[string]interface{}) (UpdateResult, error) {
	filter, err := byID(hex)
	if err != nil {
		return UpdateResult{}, err
	}
	return c.update(ctx, filter, bson.M{"$set": fields})
}

func (c collection[T]) delete(ctx context.Context, hex string) (int64, error) {
	filter, err := byID(hex)
	if err != nil {
		return 0, err
	}
	res, err := c.col.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: delete: %w", c.col.Name(), err)
	}
	return res.DeletedCount, nil
}

func (c collection[T]) get(ctx context.Context, hex string) (*T, error) {
	filter, err := byID(hex)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, filter)
}
