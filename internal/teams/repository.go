package teams

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	CreateTeam(ctx context.Context, item Team) error
	UpdateTeam(ctx context.Context, id string, set bson.M) (Team, error)
	DeleteTeam(ctx context.Context, id string) (bool, error)
	GetTeam(ctx context.Context, id string) (Team, error)
	ListTeams(ctx context.Context) ([]Team, error)

	CreateMember(ctx context.Context, item Member) error
	UpdateMember(ctx context.Context, id string, set bson.M) (Member, error)
	DeleteMember(ctx context.Context, id string) (bool, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	DeleteMembersOfTeam(ctx context.Context, teamID string) (int64, error)
}

type MongoRepository struct {
	teams   *mongo.Collection
	members *mongo.Collection
}

func NewRepository(teams, members *mongo.Collection) *MongoRepository {
	return &MongoRepository{teams: teams, members: members}
}

func (r *MongoRepository) CreateTeam(ctx context.Context, item Team) error {
	_, err := r.teams.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateTeam(ctx context.Context, id string, set bson.M) (Team, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Team
	if err := r.teams.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Team{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteTeam(ctx context.Context, id string) (bool, error) {
	res, err := r.teams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) GetTeam(ctx context.Context, id string) (Team, error) {
	var item Team
	if err := r.teams.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return Team{}, err
	}
	return item, nil
}

func (r *MongoRepository) ListTeams(ctx context.Context) ([]Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.teams.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Team, 0)
	for cursor.Next(ctx) {
		var t Team
		if err := cursor.Decode(&t); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) CreateMember(ctx context.Context, item Member) error {
	_, err := r.members.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) UpdateMember(ctx context.Context, id string, set bson.M) (Member, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Member
	if err := r.members.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Member{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteMember(ctx context.Context, id string) (bool, error) {
	res, err := r.members.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) ListMembers(ctx context.Context, teamID string) ([]Member, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "tier", Value: 1},
		{Key: "name", Value: 1},
	})

	cursor, err := r.members.Find(ctx, bson.M{"teamId": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Member, 0)
	for cursor.Next(ctx) {
		var m Member
		if err := cursor.Decode(&m); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) DeleteMembersOfTeam(ctx context.Context, teamID string) (int64, error) {
	res, err := r.members.DeleteMany(ctx, bson.M{"teamId": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
