package transfer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/contacts"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/deals"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/teams"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"
)

func sampleCollections() Collections {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return Collections{
		Teams:       []teams.Team{{ID: "t1", Name: "Alpha", Slug: "alpha", CreatedAt: day, UpdatedAt: day}},
		TeamMembers: []teams.Member{{ID: "m1", TeamID: "t1", Name: "Sam", Role: "AM", Tier: 2, CreatedAt: day, UpdatedAt: day}},
		Contacts: []contacts.Contact{
			{ID: "c1", Name: "Ada", Company: "Initech", Tier: 1, CreatedAt: day, UpdatedAt: day},
		},
		Deals: []deals.Deal{
			{ID: "d1", Name: "Initech migration", Value: 250_000, Stage: "qualified", Probability: 25, CloseDate: day.AddDate(0, 1, 0), ContactID: "c1", CreatedAt: day, UpdatedAt: day},
		},
		Touchpoints: []touchpoints.Touchpoint{
			{ID: "tp1", ContactID: "c1", Type: "call", Outcome: "positive", Date: day, CreatedAt: day, UpdatedAt: day},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	original := NewSnapshot(sampleCollections(), now)

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := ParseSnapshot(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	reencoded, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(raw) != string(reencoded) {
		t.Fatalf("round trip mismatch:\noriginal: %s\nparsed:   %s", raw, reencoded)
	}
}

func TestParseSnapshotRejectsForeignApp(t *testing.T) {
	raw := []byte(`{"app":"other-app","version":"2.0","data":{"teams":[],"teamMembers":[],"contacts":[],"deals":[],"touchpoints":[],"relationships":[],"tasks":[]}}`)
	if _, err := ParseSnapshot(raw); err == nil || !strings.Contains(err.Error(), "app tag") {
		t.Fatalf("expected app tag rejection, got %v", err)
	}
}

func TestParseSnapshotRejectsMissingVersion(t *testing.T) {
	raw := []byte(`{"app":"aws-partner-tracker","data":{"teams":[],"teamMembers":[],"contacts":[],"deals":[],"touchpoints":[],"relationships":[],"tasks":[]}}`)
	if _, err := ParseSnapshot(raw); err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version rejection, got %v", err)
	}
}

func TestParseSnapshotRejectsMissingCollection(t *testing.T) {
	raw := []byte(`{"app":"aws-partner-tracker","version":"2.0","data":{"teams":[],"contacts":[]}}`)
	_, err := ParseSnapshot(raw)
	if err == nil || !strings.Contains(err.Error(), "missing collection") {
		t.Fatalf("expected missing collection rejection, got %v", err)
	}
}

func TestParseSnapshotRejectsGarbage(t *testing.T) {
	if _, err := ParseSnapshot([]byte("not json")); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestDealsCSV(t *testing.T) {
	data := sampleCollections()
	payload, err := DealsCSV(data.Deals)
	if err != nil {
		t.Fatalf("DealsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,name,value,stage") {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "250000.00") || !strings.Contains(lines[1], "qualified") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}

func TestContactsCSVEmpty(t *testing.T) {
	payload, err := ContactsCSV(nil)
	if err != nil {
		t.Fatalf("ContactsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestTouchpointsCSV(t *testing.T) {
	payload, err := TouchpointsCSV(sampleCollections().Touchpoints)
	if err != nil {
		t.Fatalf("TouchpointsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "2026-03-01") {
		t.Fatalf("unexpected row: %s", lines[1])
	}
}
