// Package relationships stores free-form links between two contacts. No
// scoring logic attaches to a link; it is bookkeeping for the network view.
package relationships

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("relationship not found")

type Relationship struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	FromID    string    `bson:"fromId" json:"fromId"`
	ToID      string    `bson:"toId" json:"toId"`
	Label     string    `bson:"label" json:"label"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	FromID string `json:"fromId" validate:"required"`
	ToID   string `json:"toId" validate:"required"`
	Label  string `json:"label" validate:"required"`
	Notes  string `json:"notes"`
}

type Repository interface {
	Create(ctx context.Context, item Relationship) error
	Update(ctx context.Context, id string, set bson.M) (Relationship, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, contactID string) ([]Relationship, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Relationship) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Relationship, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Relationship
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Relationship{}, err
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

func (r *MongoRepository) List(ctx context.Context, contactID string) ([]Relationship, error) {
	q := bson.M{}
	if contactID != "" {
		q["$or"] = []bson.M{{"fromId": contactID}, {"toId": contactID}}
	}

	cursor, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Relationship, 0)
	for cursor.Next(ctx) {
		var rel Relationship
		if err := cursor.Decode(&rel); err != nil {
			return nil, err
		}
		items = append(items, rel)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type Service struct {
	repo     Repository
	location *time.Location
	bus      *events.Bus
}

func NewService(repo Repository, location *time.Location, bus *events.Bus) *Service {
	return &Service{
		repo:     repo,
		location: location,
		bus:      bus,
	}
}

func (s *Service) notify(id string) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Name: events.RelationshipsChanged, EntityID: id})
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Relationship, error) {
	now := time.Now().In(s.location)

	item := Relationship{
		ID:        primitive.NewObjectID().Hex(),
		FromID:    strings.TrimSpace(req.FromID),
		ToID:      strings.TrimSpace(req.ToID),
		Label:     strings.TrimSpace(req.Label),
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Relationship{}, err
	}
	s.notify(item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Relationship, error) {
	set := bson.M{
		"fromId":    strings.TrimSpace(req.FromID),
		"toId":      strings.TrimSpace(req.ToID),
		"label":     strings.TrimSpace(req.Label),
		"notes":     strings.TrimSpace(req.Notes),
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Relationship{}, ErrNotFound
		}
		return Relationship{}, err
	}
	s.notify(id)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.notify(id)
	return nil
}

func (s *Service) List(ctx context.Context, contactID string) ([]Relationship, error) {
	return s.repo.List(ctx, strings.TrimSpace(contactID))
}
