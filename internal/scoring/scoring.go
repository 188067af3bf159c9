package scoring

import (
	"math"
	"time"
)

// NeverDays is the days-since sentinel for a subject with no recorded
// touchpoint; it lands in the lowest recency band.
const NeverDays = 999

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// TouchpointStats summarizes a subject's interaction history. LastTouch is the
// zero time when the subject has never been contacted.
type TouchpointStats struct {
	Total     int
	ThisWeek  int
	LastTouch time.Time
	Trend     string
}

func tierMultiplier(tier int) float64 {
	switch tier {
	case 1:
		return 1.2
	case 2:
		return 1.1
	default:
		return 1.0
	}
}

// DaysSince returns whole calendar days between now and t, or NeverDays when t
// is the zero time.
func DaysSince(t time.Time, now time.Time) int {
	if t.IsZero() {
		return NeverDays
	}
	return int(startOfDay(now).Sub(startOfDay(t)).Hours() / 24)
}

// RelationshipScore computes the 1-10 relationship health score for a subject.
// Out-of-range tiers default to 3. Pure: callers re-evaluate after touchpoint
// mutations rather than relying on any internal caching.
func RelationshipScore(tier int, stats TouchpointStats, now time.Time) int {
	if tier < 1 || tier > 3 {
		tier = 3
	}

	daysSince := DaysSince(stats.LastTouch, now)

	score := 5.0

	// Recency bands: first match wins.
	switch {
	case daysSince <= 7:
		score += 3
	case daysSince <= 14:
		score += 2
	case daysSince <= 30:
		score += 1
	case daysSince <= 60:
		score -= 1
	case daysSince <= 90:
		score -= 2
	default:
		score -= 3
	}

	switch {
	case stats.Total >= 10:
		score += 2
	case stats.Total >= 5:
		score += 1
	}

	if stats.ThisWeek >= 2 {
		score += 1
	}

	switch stats.Trend {
	case TrendImproving:
		score += 1
	case TrendDeclining:
		score -= 1
	}

	score *= tierMultiplier(tier)

	return clampInt(roundHalfUp(score), 1, 10)
}

// DealPriority ranks a deal for sales attention on a 0-100 scale from four
// independently capped components: value (40), probability (30), close-date
// urgency (20) and the linked contact's relationship score (10). Pass
// relationshipScore 0 for deals with no linked contact.
func DealPriority(value float64, probability int, closeDate time.Time, relationshipScore int, now time.Time) int {
	if value < 0 {
		value = 0
	}
	probability = clampInt(probability, 0, 100)

	valueComponent := math.Min(40, value/1_000_000*40)
	probabilityComponent := float64(probability) / 100 * 30

	daysToClose := int(math.Ceil(closeDate.Sub(now).Hours() / 24))
	var urgency float64
	switch {
	case daysToClose <= 0:
		urgency = 20
	case daysToClose <= 7:
		urgency = 18
	case daysToClose <= 30:
		urgency = 15
	case daysToClose <= 90:
		urgency = 10
	default:
		urgency = 5
	}

	relationship := float64(relationshipScore) / 10 * 10

	total := valueComponent + probabilityComponent + urgency + relationship
	return clampInt(roundHalfUp(total), 0, 100)
}

// DeriveStats builds TouchpointStats from raw occurrence dates. The this-week
// window is the current Sunday-aligned calendar week.
func DeriveStats(dates []time.Time, now time.Time) TouchpointStats {
	stats := TouchpointStats{Trend: ClassifyTrend(dates, now)}
	weekStart := startOfWeek(now)

	for _, d := range dates {
		stats.Total++
		if d.After(stats.LastTouch) {
			stats.LastTouch = d
		}
		if !d.Before(weekStart) && !d.After(now) {
			stats.ThisWeek++
		}
	}
	return stats
}

// ClassifyTrend compares touchpoint counts in the last 30 days against the
// prior 30 days. More recent activity reads as improving, less as declining.
func ClassifyTrend(dates []time.Time, now time.Time) string {
	windowStart := now.AddDate(0, 0, -30)
	priorStart := now.AddDate(0, 0, -60)

	recent, prior := 0, 0
	for _, d := range dates {
		switch {
		case d.After(now):
			continue
		case d.After(windowStart):
			recent++
		case d.After(priorStart):
			prior++
		}
	}

	switch {
	case recent > prior:
		return TrendImproving
	case recent < prior:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
