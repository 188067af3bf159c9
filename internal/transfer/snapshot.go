package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/contacts"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/deals"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/relationships"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/tasks"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/teams"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"
)

const (
	// AppTag identifies snapshots produced by this application; imports of
	// foreign documents are rejected on it.
	AppTag        = "aws-partner-tracker"
	FormatVersion = "2.0"
)

var requiredCollections = []string{
	"teams", "teamMembers", "contacts", "deals",
	"touchpoints", "relationships", "tasks",
}

type Collections struct {
	Teams         []teams.Team                 `json:"teams"`
	TeamMembers   []teams.Member               `json:"teamMembers"`
	Contacts      []contacts.Contact           `json:"contacts"`
	Deals         []deals.Deal                 `json:"deals"`
	Touchpoints   []touchpoints.Touchpoint     `json:"touchpoints"`
	Relationships []relationships.Relationship `json:"relationships"`
	Tasks         []tasks.Task                 `json:"tasks"`
	Settings      *models.Settings             `json:"settings,omitempty"`
}

type Snapshot struct {
	App        string      `json:"app"`
	Version    string      `json:"version"`
	ExportedAt string      `json:"exportedAt"`
	Data       Collections `json:"data"`
}

func NewSnapshot(data Collections, now time.Time) Snapshot {
	return Snapshot{
		App:        AppTag,
		Version:    FormatVersion,
		ExportedAt: now.Format("2006-01-02 15:04:05 MST"),
		Data:       data,
	}
}

// ParseSnapshot validates the import document shape before any state is
// replaced: the application-identity tag, a format version, and every
// required collection key must be present. Failures carry the reason.
func ParseSnapshot(raw []byte) (Snapshot, error) {
	var envelope struct {
		App     *string                    `json:"app"`
		Version *string                    `json:"version"`
		Data    map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Snapshot{}, errors.New("not a valid JSON document")
	}

	if envelope.App == nil || *envelope.App != AppTag {
		return Snapshot{}, fmt.Errorf("missing or foreign app tag, expected %q", AppTag)
	}
	if envelope.Version == nil || *envelope.Version == "" {
		return Snapshot{}, errors.New("missing format version")
	}
	if envelope.Data == nil {
		return Snapshot{}, errors.New("missing data section")
	}
	for _, key := range requiredCollections {
		if _, ok := envelope.Data[key]; !ok {
			return Snapshot{}, fmt.Errorf("missing collection %q", key)
		}
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("malformed collection data: %v", err)
	}
	return snapshot, nil
}
