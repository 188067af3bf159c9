// Package tasks tracks follow-up work items, optionally tied to a contact or
// deal.
package tasks

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

var ErrNotFound = errors.New("task not found")

type Task struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	DueDate   time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	ContactID string    `bson:"contactId,omitempty" json:"contactId,omitempty"`
	DealID    string    `bson:"dealId,omitempty" json:"dealId,omitempty"`
	Done      bool      `bson:"done" json:"done"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Title     string `json:"title" validate:"required"`
	Notes     string `json:"notes"`
	DueDate   string `json:"dueDate" validate:"omitempty,date"`
	ContactID string `json:"contactId"`
	DealID    string `json:"dealId"`
	Done      bool   `json:"done"`
}

type Repository interface {
	Create(ctx context.Context, item Task) error
	Update(ctx context.Context, id string, set bson.M) (Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, openOnly bool) ([]Task, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, item Task) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Task
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return Task{}, err
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

func (r *MongoRepository) List(ctx context.Context, openOnly bool) ([]Task, error) {
	q := bson.M{}
	if openOnly {
		q["done"] = false
	}

	cursor, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{
		{Key: "done", Value: 1},
		{Key: "dueDate", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Task, 0)
	for cursor.Next(ctx) {
		var t Task
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
		s.bus.Publish(events.Event{Name: events.TasksChanged, EntityID: id})
	}
}

func (s *Service) buildSet(req UpsertRequest, now time.Time) (bson.M, error) {
	set := bson.M{
		"title":     strings.TrimSpace(req.Title),
		"notes":     strings.TrimSpace(req.Notes),
		"contactId": strings.TrimSpace(req.ContactID),
		"dealId":    strings.TrimSpace(req.DealID),
		"done":      req.Done,
		"updatedAt": now,
	}
	if req.DueDate != "" {
		due, err := time.ParseInLocation("2006-01-02", req.DueDate, s.location)
		if err != nil {
			return nil, err
		}
		set["dueDate"] = due
	}
	return set, nil
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Task, error) {
	now := time.Now().In(s.location)

	item := Task{
		ID:        primitive.NewObjectID().Hex(),
		Title:     strings.TrimSpace(req.Title),
		Notes:     strings.TrimSpace(req.Notes),
		ContactID: strings.TrimSpace(req.ContactID),
		DealID:    strings.TrimSpace(req.DealID),
		Done:      req.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.DueDate != "" {
		due, err := time.ParseInLocation("2006-01-02", req.DueDate, s.location)
		if err != nil {
			return Task{}, err
		}
		item.DueDate = due
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Task{}, err
	}
	s.notify(item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Task, error) {
	set, err := s.buildSet(req, time.Now().In(s.location))
	if err != nil {
		return Task{}, err
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
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

func (s *Service) List(ctx context.Context, openOnly bool) ([]Task, error) {
	return s.repo.List(ctx, openOnly)
}
