package contacts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("contact not found")

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
		s.bus.Publish(events.Event{Name: events.ContactsChanged, EntityID: id})
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Contact, error) {
	now := time.Now().In(s.location)

	item := Contact{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Company:   strings.TrimSpace(req.Company),
		Title:     strings.TrimSpace(req.Title),
		Tier:      models.NormalizeTier(req.Tier),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		TeamID:    strings.TrimSpace(req.TeamID),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Contact{}, err
	}
	s.notify(item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Contact, error) {
	id = strings.TrimSpace(id)

	set := bson.M{
		"name":      strings.TrimSpace(req.Name),
		"company":   strings.TrimSpace(req.Company),
		"title":     strings.TrimSpace(req.Title),
		"tier":      models.NormalizeTier(req.Tier),
		"email":     strings.TrimSpace(req.Email),
		"phone":     strings.TrimSpace(req.Phone),
		"teamId":    strings.TrimSpace(req.TeamID),
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
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

func (s *Service) Get(ctx context.Context, id string) (Contact, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Contact{}, ErrNotFound
		}
		return Contact{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Contact, int64, error) {
	filter.TeamID = strings.TrimSpace(filter.TeamID)

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
