package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/etuition/etuition-api/app/models"
)

// MongoUsers stores users. Email uniqueness comes from the unique index
// created by database.EnsureIndexes.
type MongoUsers struct {
	c collection[models.User]
}

func (r *MongoUsers) Create(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	if err := r.c.insert(ctx, u); err != nil {
		u.ID = primitive.NilObjectID
		return err
	}
	return nil
}

func (r *MongoUsers) All(ctx context.Context) ([]models.User, error) {
	return r.c.find(ctx, bson.M{})
}

func (r *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.c.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUsers) UpdateByEmail(ctx context.Context, email string, set map[string]interface{}) (UpdateResult, error) {
	return r.c.update(ctx, bson.M{"email": email}, bson.M{"$set": set})
}

func (r *MongoUsers) UpdateByID(ctx context.Context, id string, set map[string]interface{}) (UpdateResult, error) {
	return r.c.set(ctx, id, set)
}

func (r *MongoUsers) Delete(ctx context.Context, id string) (int64, error) {
	return r.c.delete(ctx, id)
}

// MongoTutors stores tutor profiles.
type MongoTutors struct {
	c collection[models.Tutor]
}

func (r *MongoTutors) Create(ctx context.Context, t *models.Tutor) error {
	t.ID = primitive.NewObjectID()
	return r.c.insert(ctx, t)
}

func (r *MongoTutors) All(ctx context.Context) ([]models.Tutor, error) {
	return r.c.find(ctx, bson.M{})
}

func (r *MongoTutors) FindByID(ctx context.Context, id string) (*models.Tutor, error) {
	filter, err := byID(id)
	if err != nil {
		return nil, err
	}
	filter["userRole"] = models.RoleTutor
	return r.c.findOne(ctx, filter)
}

func (r *MongoTutors) Latest(ctx context.Context, n int64) ([]models.Tutor, error) {
	return r.c.find(ctx, bson.M{}, options.Find().SetSort(newestFirst).SetLimit(n))
}
