package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/auth"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/cache"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/config"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/db"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/events"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/middleware"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/validation"
)

type Server struct {
	Cfg   *config.Config
	Cols  *db.Collections
	Val   *validation.Validator
	Log   *slog.Logger
	Cache cache.Cache
	Bus   *events.Bus
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}

func (s *Server) JWTManager() *auth.Manager {
	if s.Cfg.JWTSecret == "" {
		return nil
	}
	return &auth.Manager{
		Secret:     []byte(s.Cfg.JWTSecret),
		AccessTTL:  time.Duration(s.Cfg.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(s.Cfg.RefreshTTLMinutes) * time.Minute,
		Issuer:     "aws-partner-tracker",
	}
}
