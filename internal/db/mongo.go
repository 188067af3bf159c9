package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Teams         *mongo.Collection
	TeamMembers   *mongo.Collection
	Contacts      *mongo.Collection
	Deals         *mongo.Collection
	Touchpoints   *mongo.Collection
	Relationships *mongo.Collection
	Tasks         *mongo.Collection
	Settings      *mongo.Collection
	Users         *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Teams:         db.Collection("teams"),
		TeamMembers:   db.Collection("team_members"),
		Contacts:      db.Collection("contacts"),
		Deals:         db.Collection("deals"),
		Touchpoints:   db.Collection("touchpoints"),
		Relationships: db.Collection("relationships"),
		Tasks:         db.Collection("tasks"),
		Settings:      db.Collection("settings"),
		Users:         db.Collection("users"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Teams.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.TeamMembers.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "teamId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Contacts.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "teamId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "tier", Value: 1}, {Key: "name", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Deals.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "stage", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "closeDate", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "referralSource", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "contactId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Touchpoints.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "contactId", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "dealId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "memberId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	return nil
}
