package touchpoints

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

var (
	ErrNotFound       = errors.New("touchpoint not found")
	ErrMissingSubject = errors.New("touchpoint must reference a contact, deal or team member")
)

type ContactInfo struct {
	Name  string
	Email string
}

// ContactDirectory resolves a contact id for follow-up notifications. Lookup
// misses are not errors; the second return reports whether the contact exists.
type ContactDirectory interface {
	ContactInfo(ctx context.Context, id string) (ContactInfo, bool, error)
}

// Notifier is the optional follow-up reminder capability. A nil notifier
// disables reminders entirely.
type Notifier interface {
	SendFollowUpReminder(ctx context.Context, tp Touchpoint, contact ContactInfo) (string, error)
}

type Service struct {
	repo     Repository
	location *time.Location
	bus      *events.Bus
	contacts ContactDirectory
	notifier Notifier
}

func NewService(repo Repository, location *time.Location, bus *events.Bus, contacts ContactDirectory, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		location: location,
		bus:      bus,
		contacts: contacts,
		notifier: notifier,
	}
}

func (s *Service) notify(id string) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Name: events.TouchpointsChanged, EntityID: id})
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Touchpoint, error) {
	contactID := strings.TrimSpace(req.ContactID)
	dealID := strings.TrimSpace(req.DealID)
	memberID := strings.TrimSpace(req.MemberID)
	if contactID == "" && dealID == "" && memberID == "" {
		return Touchpoint{}, ErrMissingSubject
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, s.location)
	if err != nil {
		return Touchpoint{}, err
	}

	now := time.Now().In(s.location)
	item := Touchpoint{
		ID:         primitive.NewObjectID().Hex(),
		ContactID:  contactID,
		DealID:     dealID,
		MemberID:   memberID,
		Type:       req.Type,
		Outcome:    req.Outcome,
		Notes:      strings.TrimSpace(req.Notes),
		Date:       date,
		Important:  req.Important,
		ScoreDelta: req.ScoreDelta,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Touchpoint{}, err
	}
	s.notify(item.ID)
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Touchpoint, error) {
	id = strings.TrimSpace(id)

	set := bson.M{
		"outcome":   req.Outcome,
		"notes":     strings.TrimSpace(req.Notes),
		"important": req.Important,
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Touchpoint{}, ErrNotFound
		}
		return Touchpoint{}, err
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

func (s *Service) Get(ctx context.Context, id string) (Touchpoint, error) {
	item, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Touchpoint{}, ErrNotFound
		}
		return Touchpoint{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Touchpoint, int64, error) {
	filter.ContactID = strings.TrimSpace(filter.ContactID)
	filter.DealID = strings.TrimSpace(filter.DealID)
	filter.MemberID = strings.TrimSpace(filter.MemberID)
	filter.Type = strings.TrimSpace(filter.Type)

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

// NotifyFollowUp sends a reminder email for touchpoints logged with a
// needs-follow-up outcome. Best effort: a nil notifier, a missing contact or
// a contact without an email all no-op.
func (s *Service) NotifyFollowUp(ctx context.Context, tp Touchpoint) error {
	if s.notifier == nil || s.contacts == nil {
		return nil
	}
	if tp.Outcome != models.OutcomeNeedsFollow || tp.ContactID == "" {
		return nil
	}

	info, found, err := s.contacts.ContactInfo(ctx, tp.ContactID)
	if err != nil {
		return err
	}
	if !found || strings.TrimSpace(info.Email) == "" {
		return nil
	}

	_, err = s.notifier.SendFollowUpReminder(ctx, tp, info)
	return err
}
