package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/etuition/etuition-api/app/models"
)

// MongoApplications stores tutor applications.
type MongoApplications struct {
	c collection[models.Application]
}

func (r *MongoApplications) Create(ctx context.Context, a *models.Application) error {
	a.ID = primitive.NewObjectID()
	return r.c.insert(ctx, a)
}

func (r *MongoApplications) FindByID(ctx context.Context, id string) (*models.Application, error) {
	return r.c.get(ctx, id)
}

func (r *MongoApplications) list(ctx context.Context, filter bson.M) ([]models.Application, error) {
	return r.c.find(ctx, filter, options.Find().SetSort(newestFirst))
}

func (r *MongoApplications) ByTutor(ctx context.Context, email string) ([]models.Application, error) {
	return r.list(ctx, bson.M{"tutorEmail": email})
}

func (r *MongoApplications) ByCreator(ctx context.Context, email string) ([]models.Application, error) {
	return r.list(ctx, bson.M{"creatorEmail": email})
}

func (r *MongoApplications) ApprovedByTutor(ctx context.Context, email string) ([]models.Application, error) {
	return r.list(ctx, bson.M{"tutorEmail": email, "applicationStatus": models.StatusApproved})
}

func (r *MongoApplications) PaidByCreator(ctx context.Context, email string) ([]models.Application, error) {
	return r.list(ctx, bson.M{"creatorEmail": email, "paymentStatus": models.StatusPaid})
}

func (r *MongoApplications) Paid(ctx context.Context) ([]models.Application, error) {
	return r.list(ctx, bson.M{"paymentStatus": models.StatusPaid})
}

func (r *MongoApplications) Update(ctx context.Context, id string, set map[string]interface{}) (UpdateResult, error) {
	return r.c.set(ctx, id, set)
}

func (r *MongoApplications) Reject(ctx context.Context, id string) (UpdateResult, error) {
	return r.c.set(ctx, id, map[string]interface{}{"applicationStatus": models.StatusRejected})
}

func (r *MongoApplications) MarkPaid(ctx context.Context, id string, at time.Time) (UpdateResult, error) {
	filter, err := byID(id)
	if err != nil {
		return UpdateResult{}, err
	}
	filter["paymentStatus"] = bson.M{"$ne": models.StatusPaid}

	return r.c.update(ctx, filter, bson.M{"$set": bson.M{
		"applicationStatus": models.StatusApproved,
		"paymentStatus":     models.StatusPaid,
		"paidAt":            at,
	}})
}

func (r *MongoApplications) Delete(ctx context.Context, id string) (int64, error) {
	return r.c.delete(ctx, id)
}
