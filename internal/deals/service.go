package deals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("deal not found")

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
		s.bus.Publish(events.Event{Name: events.DealsChanged, EntityID: id})
	}
}

func (s *Service) parseDate(value string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", value, s.location)
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Deal, error) {
	now := time.Now().In(s.location)

	closeDate, err := s.parseDate(req.CloseDate)
	if err != nil {
		return Deal{}, err
	}

	stage := req.Stage
	if stage == "" {
		stage = StagePrequalified
	}

	probability := StageProbability(stage)
	if req.Probability != nil {
		probability = ClampProbability(*req.Probability)
	}

	value := req.Value
	if value < 0 {
		value = 0
	}

	item := Deal{
		ID:             primitive.NewObjectID().Hex(),
		Name:           strings.TrimSpace(req.Name),
		Value:          value,
		Stage:          stage,
		Probability:    probability,
		CloseDate:      closeDate,
		ContactID:      strings.TrimSpace(req.ContactID),
		ReferralSource: strings.TrimSpace(req.ReferralSource),
		ReferralTeam:   strings.TrimSpace(req.ReferralTeam),
		ReferralType:   strings.TrimSpace(req.ReferralType),
		ReferralNotes:  strings.TrimSpace(req.ReferralNotes),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if req.ReferralDate != "" {
		referralDate, err := s.parseDate(req.ReferralDate)
		if err != nil {
			return Deal{}, err
		}
		item.ReferralDate = referralDate
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Deal{}, err
	}
	s.notify(item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Deal, error) {
	id = strings.TrimSpace(id)

	closeDate, err := s.parseDate(req.CloseDate)
	if err != nil {
		return Deal{}, err
	}

	value := req.Value
	if value < 0 {
		value = 0
	}

	set := bson.M{
		"name":           strings.TrimSpace(req.Name),
		"value":          value,
		"closeDate":      closeDate,
		"contactId":      strings.TrimSpace(req.ContactID),
		"referralSource": strings.TrimSpace(req.ReferralSource),
		"referralTeam":   strings.TrimSpace(req.ReferralTeam),
		"referralType":   strings.TrimSpace(req.ReferralType),
		"referralNotes":  strings.TrimSpace(req.ReferralNotes),
		"updatedAt":      time.Now().In(s.location),
	}
	if req.Stage != "" {
		set["stage"] = req.Stage
	}
	switch {
	case req.Probability != nil:
		set["probability"] = ClampProbability(*req.Probability)
	case req.Stage != "":
		// A stage change through the general update path resets the
		// probability to the stage default, same as ChangeStage.
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return Deal{}, ErrNotFound
			}
			return Deal{}, err
		}
		if current.Stage != req.Stage {
			set["probability"] = StageProbability(req.Stage)
		}
	}
	if req.ReferralDate != "" {
		referralDate, err := s.parseDate(req.ReferralDate)
		if err != nil {
			return Deal{}, err
		}
		set["referralDate"] = referralDate
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Deal{}, ErrNotFound
		}
		return Deal{}, err
	}
	s.notify(id)
	return updated, nil
}

// ChangeStage moves a deal to a new stage. The probability resets to the
// stage's fixed default unless the request carries an explicit override.
func (s *Service) ChangeStage(ctx context.Context, id string, req StageChangeRequest) (Deal, error) {
	id = strings.TrimSpace(id)

	probability := StageProbability(req.Stage)
	if req.Probability != nil {
		probability = ClampProbability(*req.Probability)
	}

	set := bson.M{
		"stage":       req.Stage,
		"probability": probability,
		"updatedAt":   time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Deal{}, ErrNotFound
		}
		return Deal{}, err
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

func (s *Service) Get(ctx context.Context, id string) (Deal, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Deal{}, ErrNotFound
		}
		return Deal{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Deal, int64, error) {
	filter.Stage = strings.TrimSpace(filter.Stage)
	filter.ContactID = strings.TrimSpace(filter.ContactID)

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
