package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/httpx"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/transport"
)

type SettingsUpdateRequest struct {
	DashboardRefresh  int    `json:"dashboardRefreshSec" validate:"gte=5,lte=3600"`
	DefaultDealStage  string `json:"defaultDealStage" validate:"required,dealstage"`
	FollowUpReminders bool   `json:"followUpReminders"`
	CurrencyCode      string `json:"currencyCode" validate:"required,len=3"`
}

// GetSettings returns the settings document merged over the defaults, so
// fields added after the document was written still carry their default.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	settings := models.DefaultSettings()
	err := s.Cols.Settings.FindOne(ctx, bson.M{"_id": "settings"}).Decode(&settings)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		log.Error("settings get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("settings get: ok")
	transport.WriteJSON(w, http.StatusOK, settings)
}

func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		log.Warn("settings update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("settings update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	settings := models.Settings{
		ID:                "settings",
		DashboardRefresh:  req.DashboardRefresh,
		DefaultDealStage:  req.DefaultDealStage,
		FollowUpReminders: req.FollowUpReminders,
		CurrencyCode:      req.CurrencyCode,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := s.Cols.Settings.ReplaceOne(ctx, bson.M{"_id": "settings"}, settings, opts); err != nil {
		log.Error("settings update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if s.Bus != nil {
		s.Bus.Publish(events.Event{Name: events.SettingsChanged})
	}
	log.Info("settings update: ok")
	transport.WriteJSON(w, http.StatusOK, settings)
}
