package touchpoints

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, item Touchpoint) error
	Update(ctx context.Context, id string, set bson.M) (Touchpoint, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (Touchpoint, error)
	List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Touchpoint, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Touchpoint) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Touchpoint, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Touchpoint
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Touchpoint{}, err
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Touchpoint, error) {
	var item Touchpoint
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Touchpoint{}, err
	}
	return item, nil
}

func query(filter ListFilter) bson.M {
	q := bson.M{}
	if filter.ContactID != "" {
		q["contactId"] = filter.ContactID
	}
	if filter.DealID != "" {
		q["dealId"] = filter.DealID
	}
	if filter.MemberID != "" {
		q["memberId"] = filter.MemberID
	}
	if filter.Type != "" {
		q["type"] = filter.Type
	}
	return q
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Touchpoint, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, query(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Touchpoint, 0)
	for cursor.Next(ctx) {
		var tp Touchpoint
		if err := cursor.Decode(&tp); err != nil {
			return nil, err
		}
		items = append(items, tp)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.col.CountDocuments(ctx, query(filter))
}
