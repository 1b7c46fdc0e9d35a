package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/etuition/etuition-api/app/models"
)

var approvedTuitions = bson.M{"isAdminApproved": true}

// MongoTuitions stores tuition postings.
type MongoTuitions struct {
	c collection[models.Tuition]
}

func (r *MongoTuitions) Create(ctx context.Context, t *models.Tuition) error {
	t.ID = primitive.NewObjectID()
	return r.c.insert(ctx, t)
}

func (r *MongoTuitions) FindByID(ctx context.Context, id string) (*models.Tuition, error) {
	return r.c.get(ctx, id)
}

func (r *MongoTuitions) All(ctx context.Context) ([]models.Tuition, error) {
	return r.c.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *MongoTuitions) Approved(ctx context.Context, skip, limit int64) ([]models.Tuition, error) {
	opts := options.Find().SetSort(newestFirst).SetSkip(skip).SetLimit(limit)
	return r.c.find(ctx, approvedTuitions, opts)
}

func (r *MongoTuitions) CountApproved(ctx context.Context) (int64, error) {
	return r.c.count(ctx, approvedTuitions)
}

func (r *MongoTuitions) Latest(ctx context.Context, n int64) ([]models.Tuition, error) {
	return r.c.find(ctx, approvedTuitions, options.Find().SetSort(newestFirst).SetLimit(n))
}

func (r *MongoTuitions) ByCreator(ctx context.Context, email string) ([]models.Tuition, error) {
	return r.c.find(ctx, bson.M{"creatorEmail": email}, options.Find().SetSort(newestFirst))
}

func (r *MongoTuitions) Update(ctx context.Context, id string, set map[string]interface{}) (UpdateResult, error) {
	return r.c.set(ctx, id, set)
}

func (r *MongoTuitions) Approve(ctx context.Context, id string) (UpdateResult, error) {
	return r.c.set(ctx, id, map[string]interface{}{
		"isAdminApproved": true,
		"approvalStatus":  models.StatusApproved,
	})
}

func (r *MongoTuitions) MarkPaid(ctx context.Context, id string, at time.Time) (UpdateResult, error) {
	filter, err := byID(id)
	if err != nil {
		return UpdateResult{}, err
	}
	filter["paymentStatus"] = bson.M{"$ne": models.StatusPaid}

	return r.c.update(ctx, filter, bson.M{"$set": bson.M{
		"paymentStatus": models.StatusPaid,
		"paymentDate":   at,
	}})
}

func (r *MongoTuitions) Delete(ctx context.Context, id string) (int64, error) {
	return r.c.delete(ctx, id)
}
