package attribution

import (
	"math"
	"testing"
)

func sampleDeals() []Deal {
	return []Deal{
		{ID: "d1", Value: 100_000, Stage: "deal-won", ReferralSource: "c1", ReferralTeam: "t1", ReferralType: "warm_intro"},
		{ID: "d2", Value: 250_000, Stage: "qualified", ReferralSource: "c1", ReferralTeam: "t1", ReferralType: "direct"},
		{ID: "d3", Value: 50_000, Stage: "deal-lost", ReferralSource: "c2", ReferralTeam: "t2", ReferralType: "event"},
		{ID: "d4", Value: 400_000, Stage: "deal-won", ReferralSource: "c2", ReferralTeam: "t2", ReferralType: "warm_intro"},
		{ID: "d5", Value: 75_000, Stage: "legal"}, // no referral source, excluded
	}
}

func TestAggregateSummary(t *testing.T) {
	report := Aggregate(sampleDeals())

	if report.Summary.TotalReferredDeals != 4 {
		t.Fatalf("expected 4 referred deals, got %d", report.Summary.TotalReferredDeals)
	}
	if report.Summary.TotalReferredValue != 800_000 {
		t.Fatalf("expected 800000 referred value, got %f", report.Summary.TotalReferredValue)
	}
	if report.Summary.AvgReferralValue != 200_000 {
		t.Fatalf("expected 200000 avg referral value, got %f", report.Summary.AvgReferralValue)
	}
	// c2 won 400k vs c1's 100k
	if report.Summary.TopReferrer != "c2" {
		t.Fatalf("expected top referrer c2, got %q", report.Summary.TopReferrer)
	}
	if report.Summary.TopReferralTeam != "t2" {
		t.Fatalf("expected top referral team t2, got %q", report.Summary.TopReferralTeam)
	}
}

func TestAggregateGroupCounts(t *testing.T) {
	deals := sampleDeals()
	report := Aggregate(deals)

	referred := 0
	for _, d := range deals {
		if d.ReferralSource != "" {
			referred++
		}
	}
	byTypeTotal := 0
	for _, g := range report.ByType {
		byTypeTotal += g.DealCount
	}
	if byTypeTotal != referred {
		t.Fatalf("byType deal counts sum to %d, want %d", byTypeTotal, referred)
	}

	for key, g := range report.ByContact {
		reconstructed := g.AvgDealSize * float64(g.DealCount)
		if math.Abs(reconstructed-g.TotalValue) > 1e-9 {
			t.Fatalf("group %s: avg*count=%f, total=%f", key, reconstructed, g.TotalValue)
		}
	}
}

func TestAggregateGroupDerivations(t *testing.T) {
	report := Aggregate(sampleDeals())

	c1 := report.ByContact["c1"]
	if c1 == nil {
		t.Fatal("missing c1 group")
	}
	if c1.DealCount != 2 || c1.WonDeals != 1 {
		t.Fatalf("c1 counts: %d deals, %d won", c1.DealCount, c1.WonDeals)
	}
	if c1.AvgDealSize != 175_000 {
		t.Fatalf("c1 avg deal size: %f", c1.AvgDealSize)
	}
	if c1.WinRate != 50 {
		t.Fatalf("c1 win rate: %f", c1.WinRate)
	}

	warm := report.ByType["warm_intro"]
	if warm == nil || warm.WonValue != 500_000 {
		t.Fatalf("unexpected warm_intro group: %+v", warm)
	}
}

func TestAggregateTopTieBreak(t *testing.T) {
	deals := []Deal{
		{ID: "d1", Value: 100, Stage: "deal-won", ReferralSource: "first", ReferralTeam: "ta", ReferralType: "direct"},
		{ID: "d2", Value: 100, Stage: "deal-won", ReferralSource: "second", ReferralTeam: "tb", ReferralType: "direct"},
	}
	report := Aggregate(deals)
	if report.Summary.TopReferrer != "first" {
		t.Fatalf("tie should go to first encountered, got %q", report.Summary.TopReferrer)
	}
	if report.Summary.TopReferralTeam != "ta" {
		t.Fatalf("tie should go to first encountered team, got %q", report.Summary.TopReferralTeam)
	}
}

func TestAggregateEmpty(t *testing.T) {
	report := Aggregate(nil)
	if report.Summary.TotalReferredDeals != 0 || report.Summary.AvgReferralValue != 0 {
		t.Fatalf("unexpected summary for empty input: %+v", report.Summary)
	}
	if report.Summary.TopReferrer != "" || report.Summary.TopReferralTeam != "" {
		t.Fatalf("expected empty top groups, got %+v", report.Summary)
	}
	if len(report.ByContact) != 0 || len(report.ByTeam) != 0 || len(report.ByType) != 0 {
		t.Fatal("expected empty breakdowns")
	}
}
