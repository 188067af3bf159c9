package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/attribution"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/contacts"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/deals"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/scoring"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/transport"
)

const (
	cacheKeyPipeline      = "dashboard:pipeline"
	cacheKeyRelationships = "dashboard:relationships"
	cacheKeyAttribution   = "dashboard:attribution"
)

type pipelineDeal struct {
	deals.Deal
	PriorityScore     int `json:"priorityScore"`
	RelationshipScore int `json:"relationshipScore"`
}

type contactHealth struct {
	Contact   contacts.Contact `json:"contact"`
	Score     int              `json:"score"`
	Total     int              `json:"totalTouchpoints"`
	ThisWeek  int              `json:"thisWeek"`
	DaysSince int              `json:"daysSinceLastTouch"`
	LastTouch *time.Time       `json:"lastTouch,omitempty"`
	Trend     string           `json:"trend"`
}

// GetPipeline returns every deal annotated with its priority score and the
// linked contact's relationship score, sorted by priority descending.
func (s *Server) GetPipeline(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	if s.serveCached(w, r, cacheKeyPipeline, "pipeline") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	allDeals, err := collectAll[deals.Deal](ctx, s.Cols.Deals)
	if err != nil {
		log.Error("pipeline: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	scores, err := s.contactScores(ctx)
	if err != nil {
		log.Error("pipeline: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	items := make([]pipelineDeal, 0, len(allDeals))
	var totalValue, weightedValue float64
	for _, d := range allDeals {
		relScore := 0
		if d.ContactID != "" {
			relScore = scores[d.ContactID]
		}
		items = append(items, pipelineDeal{
			Deal:              d,
			PriorityScore:     scoring.DealPriority(d.Value, d.Probability, d.CloseDate, relScore, now),
			RelationshipScore: relScore,
		})
		if !deals.IsClosed(d.Stage) {
			totalValue += d.Value
			weightedValue += d.Value * float64(d.Probability) / 100
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PriorityScore > items[j].PriorityScore
	})

	response := map[string]interface{}{
		"deals":         items,
		"count":         len(items),
		"totalValue":    totalValue,
		"weightedValue": weightedValue,
	}

	s.storeCached(r, cacheKeyPipeline, response)
	log.Info("pipeline: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

// GetRelationships returns the relationship health view: one entry per
// contact with its score, touchpoint stats and trend, best scores first.
func (s *Server) GetRelationships(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	if s.serveCached(w, r, cacheKeyRelationships, "relationships") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	allContacts, err := collectAll[contacts.Contact](ctx, s.Cols.Contacts)
	if err != nil {
		log.Error("relationships: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	dates, err := s.touchpointDates(ctx)
	if err != nil {
		log.Error("relationships: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	items := make([]contactHealth, 0, len(allContacts))
	for _, c := range allContacts {
		stats := scoring.DeriveStats(dates[c.ID], now)
		entry := contactHealth{
			Contact:   c,
			Score:     scoring.RelationshipScore(c.Tier, stats, now),
			Total:     stats.Total,
			ThisWeek:  stats.ThisWeek,
			DaysSince: scoring.DaysSince(stats.LastTouch, now),
			Trend:     stats.Trend,
		}
		if !stats.LastTouch.IsZero() {
			last := stats.LastTouch
			entry.LastTouch = &last
		}
		items = append(items, entry)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Contact.Name < items[j].Contact.Name
	})

	response := map[string]interface{}{
		"contacts": items,
		"count":    len(items),
	}

	s.storeCached(r, cacheKeyRelationships, response)
	log.Info("relationships: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, response)
}

// GetAttribution returns the referral attribution report across all deals.
func (s *Server) GetAttribution(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	if s.serveCached(w, r, cacheKeyAttribution, "attribution") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	allDeals, err := collectAll[deals.Deal](ctx, s.Cols.Deals)
	if err != nil {
		log.Error("attribution: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	input := make([]attribution.Deal, 0, len(allDeals))
	for _, d := range allDeals {
		input = append(input, attribution.Deal{
			ID:             d.ID,
			Value:          d.Value,
			Stage:          d.Stage,
			ReferralSource: d.ReferralSource,
			ReferralTeam:   d.ReferralTeam,
			ReferralType:   d.ReferralType,
		})
	}
	report := attribution.Aggregate(input)

	s.storeCached(r, cacheKeyAttribution, report)
	log.Info("attribution: ok", slog.Int("referred", report.Summary.TotalReferredDeals))
	transport.WriteJSON(w, http.StatusOK, report)
}

// contactScores computes the relationship score for every contact in one pass
// over the touchpoints collection.
func (s *Server) contactScores(ctx context.Context) (map[string]int, error) {
	allContacts, err := collectAll[contacts.Contact](ctx, s.Cols.Contacts)
	if err != nil {
		return nil, err
	}
	dates, err := s.touchpointDates(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.Cfg.Timezone)
	scores := make(map[string]int, len(allContacts))
	for _, c := range allContacts {
		stats := scoring.DeriveStats(dates[c.ID], now)
		scores[c.ID] = scoring.RelationshipScore(c.Tier, stats, now)
	}
	return scores, nil
}

func (s *Server) touchpointDates(ctx context.Context) (map[string][]time.Time, error) {
	all, err := collectAll[touchpoints.Touchpoint](ctx, s.Cols.Touchpoints)
	if err != nil {
		return nil, err
	}
	dates := make(map[string][]time.Time)
	for _, tp := range all {
		if tp.ContactID == "" {
			continue
		}
		dates[tp.ContactID] = append(dates[tp.ContactID], tp.Date)
	}
	return dates, nil
}

func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key, name string) bool {
	if s.Cache == nil {
		return false
	}
	cached, ok, err := s.Cache.Get(r.Context(), key)
	if err != nil || !ok {
		return false
	}
	s.logWithRequest(r).Info(name + ": cache hit")
	writeCachedJSON(w, http.StatusOK, cached)
	return true
}

func (s *Server) storeCached(r *http.Request, key string, response interface{}) {
	if s.Cache == nil {
		return
	}
	if payload, err := encodeJSON(response); err == nil {
		_ = s.Cache.Set(r.Context(), key, payload, time.Duration(s.Cfg.CacheTTLSeconds)*time.Second)
	}
}

func collectAll[T any](ctx context.Context, col *mongo.Collection) ([]T, error) {
	cursor, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []T
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}
