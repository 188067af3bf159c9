package deals

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	stored  Deal
	lastSet bson.M
}

func (f *fakeRepo) Create(ctx context.Context, item Deal) error {
	f.stored = item
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Deal, error) {
	if id != f.stored.ID {
		return Deal{}, mongo.ErrNoDocuments
	}
	f.lastSet = set
	if stage, ok := set["stage"].(string); ok {
		f.stored.Stage = stage
	}
	if probability, ok := set["probability"].(int); ok {
		f.stored.Probability = probability
	}
	return f.stored, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	return id == f.stored.ID, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Deal, error) {
	if id != f.stored.ID {
		return Deal{}, mongo.ErrNoDocuments
	}
	return f.stored, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Deal, error) {
	return []Deal{f.stored}, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) { return 1, nil }

func dealFixture() Deal {
	return Deal{
		ID:          "d1",
		Name:        "Migration assessment",
		Value:       250_000,
		Stage:       StagePrequalified,
		Probability: 10,
		CloseDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func updateFixture() UpsertRequest {
	return UpsertRequest{
		Name:      "Migration assessment",
		Value:     250_000,
		CloseDate: "2026-06-01",
	}
}

func TestUpdateStageChangeResetsProbability(t *testing.T) {
	repo := &fakeRepo{stored: dealFixture()}
	svc := NewService(repo, time.UTC, nil)

	req := updateFixture()
	req.Stage = StageLegal

	updated, err := svc.Update(context.Background(), "d1", req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Stage != StageLegal {
		t.Fatalf("expected stage %s, got %s", StageLegal, updated.Stage)
	}
	if updated.Probability != 75 {
		t.Fatalf("expected stage default probability 75, got %d", updated.Probability)
	}
}

func TestUpdateStageChangeHonorsOverride(t *testing.T) {
	repo := &fakeRepo{stored: dealFixture()}
	svc := NewService(repo, time.UTC, nil)

	override := 50
	req := updateFixture()
	req.Stage = StageLegal
	req.Probability = &override

	updated, err := svc.Update(context.Background(), "d1", req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Probability != 50 {
		t.Fatalf("expected override 50, got %d", updated.Probability)
	}
}

func TestUpdateSameStageKeepsProbability(t *testing.T) {
	fixture := dealFixture()
	fixture.Probability = 33
	repo := &fakeRepo{stored: fixture}
	svc := NewService(repo, time.UTC, nil)

	req := updateFixture()
	req.Stage = StagePrequalified

	updated, err := svc.Update(context.Background(), "d1", req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Probability != 33 {
		t.Fatalf("expected probability 33 untouched, got %d", updated.Probability)
	}
	if _, ok := repo.lastSet["probability"]; ok {
		t.Fatal("probability should not be written on a same-stage update")
	}
}

func TestUpdateWithoutStageKeepsProbability(t *testing.T) {
	fixture := dealFixture()
	fixture.Probability = 42
	repo := &fakeRepo{stored: fixture}
	svc := NewService(repo, time.UTC, nil)

	updated, err := svc.Update(context.Background(), "d1", updateFixture())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Probability != 42 {
		t.Fatalf("expected probability 42 untouched, got %d", updated.Probability)
	}
}

func TestUpdateMissingDeal(t *testing.T) {
	repo := &fakeRepo{stored: dealFixture()}
	svc := NewService(repo, time.UTC, nil)

	req := updateFixture()
	req.Stage = StageLegal

	if _, err := svc.Update(context.Background(), "missing", req); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChangeStageResetsProbability(t *testing.T) {
	repo := &fakeRepo{stored: dealFixture()}
	svc := NewService(repo, time.UTC, nil)

	updated, err := svc.ChangeStage(context.Background(), "d1", StageChangeRequest{Stage: StageSigned})
	if err != nil {
		t.Fatalf("change stage: %v", err)
	}
	if updated.Probability != 95 {
		t.Fatalf("expected stage default probability 95, got %d", updated.Probability)
	}
}
