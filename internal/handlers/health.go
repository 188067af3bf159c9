package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/transport"
)

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := s.Cols.Teams.Database().Client().Ping(ctx, nil); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	transport.WriteJSON(w, code, map[string]string{"status": status})
}
