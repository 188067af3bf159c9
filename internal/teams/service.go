package teams

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("team member not found")
)

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
		s.bus.Publish(events.Event{Name: events.TeamsChanged, EntityID: id})
	}
}

func (s *Service) CreateTeam(ctx context.Context, req TeamUpsertRequest) (Team, error) {
	now := time.Now().In(s.location)
	name := strings.TrimSpace(req.Name)

	item := Team{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		Slug:      utils.Slugify(name),
		Region:    strings.TrimSpace(req.Region),
		Color:     strings.TrimSpace(req.Color),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateTeam(ctx, item); err != nil {
		return Team{}, err
	}
	s.notify(item.ID)
	return item, nil
}

func (s *Service) UpdateTeam(ctx context.Context, id string, req TeamUpsertRequest) (Team, error) {
	id = strings.TrimSpace(id)
	name := strings.TrimSpace(req.Name)

	set := bson.M{
		"name":      name,
		"slug":      utils.Slugify(name),
		"region":    strings.TrimSpace(req.Region),
		"color":     strings.TrimSpace(req.Color),
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.UpdateTeam(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Team{}, ErrTeamNotFound
		}
		return Team{}, err
	}
	s.notify(id)
	return updated, nil
}

// DeleteTeam removes the team and its members. Contacts keep their teamId and
// resolve as unknown on display.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	deleted, err := s.repo.DeleteTeam(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTeamNotFound
	}
	if _, err := s.repo.DeleteMembersOfTeam(ctx, id); err != nil {
		return err
	}
	s.notify(id)
	return nil
}

func (s *Service) GetTeam(ctx context.Context, id string) (Team, error) {
	item, err := s.repo.GetTeam(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Team{}, ErrTeamNotFound
		}
		return Team{}, err
	}
	return item, nil
}

func (s *Service) ListTeams(ctx context.Context) ([]Team, error) {
	return s.repo.ListTeams(ctx)
}

func (s *Service) CreateMember(ctx context.Context, teamID string, req MemberUpsertRequest) (Member, error) {
	teamID = strings.TrimSpace(teamID)
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return Member{}, err
	}

	now := time.Now().In(s.location)
	item := Member{
		ID:        primitive.NewObjectID().Hex(),
		TeamID:    teamID,
		Name:      strings.TrimSpace(req.Name),
		Role:      req.Role,
		Tier:      models.NormalizeTier(req.Tier),
		Geo:       strings.TrimSpace(req.Geo),
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateMember(ctx, item); err != nil {
		return Member{}, err
	}
	s.notify(teamID)
	return item, nil
}

func (s *Service) UpdateMember(ctx context.Context, id string, req MemberUpsertRequest) (Member, error) {
	id = strings.TrimSpace(id)

	set := bson.M{
		"name":      strings.TrimSpace(req.Name),
		"role":      req.Role,
		"tier":      models.NormalizeTier(req.Tier),
		"geo":       strings.TrimSpace(req.Geo),
		"email":     strings.TrimSpace(req.Email),
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.UpdateMember(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Member{}, ErrMemberNotFound
		}
		return Member{}, err
	}
	s.notify(updated.TeamID)
	return updated, nil
}

func (s *Service) DeleteMember(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteMember(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	s.notify(id)
	return nil
}

func (s *Service) ListMembers(ctx context.Context, teamID string) ([]Member, error) {
	teamID = strings.TrimSpace(teamID)
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, teamID)
}
