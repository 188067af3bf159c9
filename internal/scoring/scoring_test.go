package scoring

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC) // a Wednesday

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func TestRelationshipScoreWorkedScenario(t *testing.T) {
	// base 5 +3 recency +2 frequency +1 this-week +1 trend = 12, x1.2 = 14.4 -> 10 after clamp
	stats := TouchpointStats{
		Total:     12,
		ThisWeek:  2,
		LastTouch: daysAgo(3),
		Trend:     TrendImproving,
	}
	if got := RelationshipScore(1, stats, testNow); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestRelationshipScoreNoHistory(t *testing.T) {
	// zero touchpoints: days-since sentinel lands in the lowest band, 5-3=2
	if got := RelationshipScore(3, TouchpointStats{Trend: TrendStable}, testNow); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestRelationshipScoreRecencyBands(t *testing.T) {
	cases := []struct {
		name      string
		daysSince int
		want      int
	}{
		{"within week", 7, 8},
		{"within two weeks", 14, 7},
		{"within month", 30, 6},
		{"within sixty days", 60, 4},
		{"within ninety days", 90, 3},
		{"stale", 91, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stats := TouchpointStats{Total: 1, LastTouch: daysAgo(tc.daysSince), Trend: TrendStable}
			if got := RelationshipScore(3, stats, testNow); got != tc.want {
				t.Fatalf("daysSince=%d: expected %d, got %d", tc.daysSince, tc.want, got)
			}
		})
	}
}

func TestRelationshipScoreTierMonotonic(t *testing.T) {
	histories := []TouchpointStats{
		{},
		{Total: 3, LastTouch: daysAgo(45), Trend: TrendDeclining},
		{Total: 6, ThisWeek: 1, LastTouch: daysAgo(10), Trend: TrendStable},
		{Total: 15, ThisWeek: 3, LastTouch: daysAgo(1), Trend: TrendImproving},
	}
	for i, stats := range histories {
		s1 := RelationshipScore(1, stats, testNow)
		s2 := RelationshipScore(2, stats, testNow)
		s3 := RelationshipScore(3, stats, testNow)
		if s1 < s2 || s2 < s3 {
			t.Fatalf("history %d: tier scores not monotonic: %d %d %d", i, s1, s2, s3)
		}
	}
}

func TestRelationshipScoreBounds(t *testing.T) {
	extremes := []TouchpointStats{
		{},
		{Total: 1000, ThisWeek: 50, LastTouch: testNow, Trend: TrendImproving},
		{Total: 1, LastTouch: daysAgo(400), Trend: TrendDeclining},
	}
	for _, stats := range extremes {
		for tier := -1; tier <= 5; tier++ {
			got := RelationshipScore(tier, stats, testNow)
			if got < 1 || got > 10 {
				t.Fatalf("tier=%d stats=%+v: score %d out of range", tier, stats, got)
			}
		}
	}
}

func TestRelationshipScoreBadTierDefaults(t *testing.T) {
	stats := TouchpointStats{Total: 6, LastTouch: daysAgo(5), Trend: TrendStable}
	want := RelationshipScore(3, stats, testNow)
	for _, tier := range []int{0, -2, 4, 99} {
		if got := RelationshipScore(tier, stats, testNow); got != want {
			t.Fatalf("tier=%d: expected default-tier score %d, got %d", tier, want, got)
		}
	}
}

func TestDealPriorityWorkedScenario(t *testing.T) {
	// value 20 + probability 15 + urgency 10 + relationship 6 = 51
	close := testNow.AddDate(0, 0, 40)
	if got := DealPriority(500_000, 50, close, 6, testNow); got != 51 {
		t.Fatalf("expected 51, got %d", got)
	}
}

func TestDealPriorityFloor(t *testing.T) {
	close := testNow.AddDate(0, 0, 999)
	if got := DealPriority(0, 0, close, 0, testNow); got != 5 {
		t.Fatalf("expected urgency-only score 5, got %d", got)
	}
}

func TestDealPriorityMaxed(t *testing.T) {
	if got := DealPriority(2_000_000, 100, daysAgo(1), 10, testNow); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestDealPriorityUrgencyBands(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{-5, 20},
		{0, 20},
		{7, 18},
		{30, 15},
		{90, 10},
		{120, 5},
	}
	for _, tc := range cases {
		close := testNow.AddDate(0, 0, tc.days)
		if got := DealPriority(0, 0, close, 0, testNow); got != tc.want {
			t.Fatalf("daysToClose=%d: expected %d, got %d", tc.days, tc.want, got)
		}
	}
}

func TestDealPriorityNormalizesInput(t *testing.T) {
	close := testNow.AddDate(0, 0, 999)
	if got := DealPriority(-500, -20, close, 0, testNow); got != 5 {
		t.Fatalf("expected negative inputs normalized to 5, got %d", got)
	}
	if got := DealPriority(0, 250, close, 0, testNow); got != 35 {
		t.Fatalf("expected probability clamped to 100 (30+5), got %d", got)
	}
}

func TestDeriveStats(t *testing.T) {
	dates := []time.Time{
		daysAgo(1),
		daysAgo(2),
		daysAgo(20),
		daysAgo(45),
	}
	stats := DeriveStats(dates, testNow)
	if stats.Total != 4 {
		t.Fatalf("expected total 4, got %d", stats.Total)
	}
	// testNow is a Wednesday; Sunday-aligned week covers the last 3 days
	if stats.ThisWeek != 2 {
		t.Fatalf("expected 2 this week, got %d", stats.ThisWeek)
	}
	if !stats.LastTouch.Equal(daysAgo(1)) {
		t.Fatalf("unexpected last touch %v", stats.LastTouch)
	}
	if stats.Trend != TrendImproving {
		t.Fatalf("expected improving trend, got %s", stats.Trend)
	}
}

func TestDeriveStatsEmpty(t *testing.T) {
	stats := DeriveStats(nil, testNow)
	if stats.Total != 0 || stats.ThisWeek != 0 || !stats.LastTouch.IsZero() {
		t.Fatalf("unexpected stats for empty history: %+v", stats)
	}
	if stats.Trend != TrendStable {
		t.Fatalf("expected stable trend, got %s", stats.Trend)
	}
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name  string
		dates []time.Time
		want  string
	}{
		{"more recent activity", []time.Time{daysAgo(5), daysAgo(10), daysAgo(40)}, TrendImproving},
		{"fading activity", []time.Time{daysAgo(35), daysAgo(50)}, TrendDeclining},
		{"even activity", []time.Time{daysAgo(10), daysAgo(40)}, TrendStable},
		{"no activity", nil, TrendStable},
		{"future dates ignored", []time.Time{testNow.AddDate(0, 0, 3)}, TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyTrend(tc.dates, testNow); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDaysSinceNever(t *testing.T) {
	if got := DaysSince(time.Time{}, testNow); got != NeverDays {
		t.Fatalf("expected sentinel %d, got %d", NeverDays, got)
	}
}
