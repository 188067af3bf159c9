package transfer

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/httpx"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/middleware"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/transport"
)

// 10 MB is generous for a single-tenant dataset; anything larger is almost
// certainly not one of our snapshots.
const maxImportBytes = 10 << 20

type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snapshot, err := h.service.Export(ctx)
	if err != nil {
		log.Error("export: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="partner-tracker-export.json"`)
	log.Info("export: ok")
	transport.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	entity := strings.TrimSpace(r.URL.Query().Get("entity"))

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	snapshot, err := h.service.Export(ctx)
	if err != nil {
		log.Error("export csv: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	var payload []byte
	switch entity {
	case "deals":
		payload, err = DealsCSV(snapshot.Data.Deals)
	case "contacts":
		payload, err = ContactsCSV(snapshot.Data.Contacts)
	case "touchpoints":
		payload, err = TouchpointsCSV(snapshot.Data.Touchpoints)
	default:
		transport.WriteError(w, http.StatusBadRequest, "unknown entity, expected deals, contacts or touchpoints", nil)
		return
	}
	if err != nil {
		log.Error("export csv: encode error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "encode error", nil)
		return
	}

	transport.WriteAttachment(w, "text/csv", "partner-tracker-"+entity+".csv", payload)
	log.Info("export csv: ok", slog.String("entity", entity))
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	raw, err := httpx.ReadAllLimit(r.Body, maxImportBytes)
	if err != nil {
		log.Warn("import: read error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "unreadable body", nil)
		return
	}

	snapshot, err := ParseSnapshot(raw)
	if err != nil {
		log.Warn("import: rejected", slog.String("reason", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if err := h.service.Import(ctx, snapshot); err != nil {
		log.Error("import: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("import: ok",
		slog.Int("teams", len(snapshot.Data.Teams)),
		slog.Int("contacts", len(snapshot.Data.Contacts)),
		slog.Int("deals", len(snapshot.Data.Deals)),
		slog.Int("touchpoints", len(snapshot.Data.Touchpoints)),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
