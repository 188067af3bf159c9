package touchpoints

import (
	"context"
	"testing"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeRepo struct {
	created []Touchpoint
}

func (f *fakeRepo) Create(ctx context.Context, item Touchpoint) error {
	f.created = append(f.created, item)
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Touchpoint, error) {
	return Touchpoint{ID: id}, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) { return true, nil }

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Touchpoint, error) {
	return Touchpoint{ID: id}, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Touchpoint, error) {
	return nil, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) { return 0, nil }

type fakeDirectory struct {
	info  ContactInfo
	found bool
}

func (f *fakeDirectory) ContactInfo(ctx context.Context, id string) (ContactInfo, bool, error) {
	return f.info, f.found, nil
}

type fakeNotifier struct {
	sent int
}

func (f *fakeNotifier) SendFollowUpReminder(ctx context.Context, tp Touchpoint, contact ContactInfo) (string, error) {
	f.sent++
	return "msg-1", nil
}

func TestCreateRequiresSubject(t *testing.T) {
	svc := NewService(&fakeRepo{}, time.UTC, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateRequest{
		Type:    models.TouchpointCall,
		Outcome: models.OutcomePositive,
		Date:    "2026-03-01",
	})
	if err != ErrMissingSubject {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestCreateAcceptsAnySubject(t *testing.T) {
	cases := []CreateRequest{
		{ContactID: "c1", Type: models.TouchpointCall, Outcome: models.OutcomeNeutral, Date: "2026-03-01"},
		{DealID: "d1", Type: models.TouchpointEmail, Outcome: models.OutcomePositive, Date: "2026-03-02"},
		{MemberID: "m1", Type: models.TouchpointMeeting, Outcome: models.OutcomeNegative, Date: "2026-03-03"},
	}
	repo := &fakeRepo{}
	svc := NewService(repo, time.UTC, nil, nil, nil)
	for _, req := range cases {
		if _, err := svc.Create(context.Background(), req); err != nil {
			t.Fatalf("create %+v: %v", req, err)
		}
	}
	if len(repo.created) != 3 {
		t.Fatalf("expected 3 touchpoints, got %d", len(repo.created))
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := NewService(&fakeRepo{}, time.UTC, nil, nil, nil)
	_, err := svc.Create(context.Background(), CreateRequest{
		ContactID: "c1",
		Type:      models.TouchpointCall,
		Outcome:   models.OutcomePositive,
		Date:      "01/03/2026",
	})
	if err == nil {
		t.Fatal("expected date parse error")
	}
}

func TestNotifyFollowUp(t *testing.T) {
	dir := &fakeDirectory{info: ContactInfo{Name: "Ada", Email: "ada@example.com"}, found: true}
	notifier := &fakeNotifier{}
	svc := NewService(&fakeRepo{}, time.UTC, nil, dir, notifier)

	tp := Touchpoint{ID: "t1", ContactID: "c1", Outcome: models.OutcomeNeedsFollow}
	if err := svc.NotifyFollowUp(context.Background(), tp); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if notifier.sent != 1 {
		t.Fatalf("expected 1 reminder, got %d", notifier.sent)
	}
}

func TestNotifyFollowUpSkips(t *testing.T) {
	dir := &fakeDirectory{info: ContactInfo{Name: "Ada"}, found: true}
	notifier := &fakeNotifier{}
	svc := NewService(&fakeRepo{}, time.UTC, nil, dir, notifier)

	cases := []Touchpoint{
		{ID: "t1", ContactID: "c1", Outcome: models.OutcomePositive}, // wrong outcome
		{ID: "t2", Outcome: models.OutcomeNeedsFollow},               // no contact
		{ID: "t3", ContactID: "c1", Outcome: models.OutcomeNeedsFollow}, // contact has no email
	}
	for _, tp := range cases {
		if err := svc.NotifyFollowUp(context.Background(), tp); err != nil {
			t.Fatalf("notify %s: %v", tp.ID, err)
		}
	}
	if notifier.sent != 0 {
		t.Fatalf("expected no reminders, got %d", notifier.sent)
	}
}
