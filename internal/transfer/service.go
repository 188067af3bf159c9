package transfer

import (
	"context"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/contacts"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/db"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/deals"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/relationships"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/tasks"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/teams"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Service struct {
	cols     *db.Collections
	location *time.Location
	bus      *events.Bus
}

func NewService(cols *db.Collections, location *time.Location, bus *events.Bus) *Service {
	return &Service{
		cols:     cols,
		location: location,
		bus:      bus,
	}
}

func readAll[T any](ctx context.Context, col *mongo.Collection) ([]T, error) {
	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func replaceAll[T any](ctx context.Context, col *mongo.Collection, items []T) error {
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

// Export reads every collection into a snapshot tagged with the current
// format version and a human-readable timestamp.
func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	var data Collections
	var err error

	if data.Teams, err = readAll[teams.Team](ctx, s.cols.Teams); err != nil {
		return Snapshot{}, err
	}
	if data.TeamMembers, err = readAll[teams.Member](ctx, s.cols.TeamMembers); err != nil {
		return Snapshot{}, err
	}
	if data.Contacts, err = readAll[contacts.Contact](ctx, s.cols.Contacts); err != nil {
		return Snapshot{}, err
	}
	if data.Deals, err = readAll[deals.Deal](ctx, s.cols.Deals); err != nil {
		return Snapshot{}, err
	}
	if data.Touchpoints, err = readAll[touchpoints.Touchpoint](ctx, s.cols.Touchpoints); err != nil {
		return Snapshot{}, err
	}
	if data.Relationships, err = readAll[relationships.Relationship](ctx, s.cols.Relationships); err != nil {
		return Snapshot{}, err
	}
	if data.Tasks, err = readAll[tasks.Task](ctx, s.cols.Tasks); err != nil {
		return Snapshot{}, err
	}

	var settings models.Settings
	switch err := s.cols.Settings.FindOne(ctx, bson.M{"_id": "settings"}).Decode(&settings); err {
	case nil:
		data.Settings = &settings
	case mongo.ErrNoDocuments:
		// exported without a settings document; defaults apply on restore
	default:
		return Snapshot{}, err
	}

	return NewSnapshot(data, time.Now().In(s.location)), nil
}

// Import replaces every collection with the snapshot's contents. The caller
// must have validated the snapshot via ParseSnapshot first.
func (s *Service) Import(ctx context.Context, snapshot Snapshot) error {
	if err := replaceAll(ctx, s.cols.Teams, snapshot.Data.Teams); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.cols.TeamMembers, snapshot.Data.TeamMembers); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.cols.Contacts, snapshot.Data.Contacts); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.cols.Deals, snapshot.Data.Deals); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.cols.Touchpoints, snapshot.Data.Touchpoints); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.cols.Relationships, snapshot.Data.Relationships); err != nil {
		return err
	}
	if err := replaceAll(ctx, s.cols.Tasks, snapshot.Data.Tasks); err != nil {
		return err
	}

	if snapshot.Data.Settings != nil {
		settings := *snapshot.Data.Settings
		settings.ID = "settings"
		opts := options.Replace().SetUpsert(true)
		if _, err := s.cols.Settings.ReplaceOne(ctx, bson.M{"_id": "settings"}, settings, opts); err != nil {
			return err
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.Event{Name: events.DataImported})
	}
	return nil
}
