// Package attribution summarizes which contacts, teams and referral channels
// are driving pipeline value. Aggregation is pure and order-independent except
// for top-referrer selection, where ties on won value go to the group
// encountered first in the input slice.
package attribution

// Deal carries the subset of deal fields the aggregator reads. Deals with an
// empty ReferralSource are excluded from every breakdown.
type Deal struct {
	ID             string
	Value          float64
	Stage          string
	ReferralSource string
	ReferralTeam   string
	ReferralType   string
}

const stageWon = "deal-won"

type Group struct {
	Key         string  `json:"key"`
	TotalValue  float64 `json:"totalValue"`
	WonValue    float64 `json:"wonValue"`
	DealCount   int     `json:"dealCount"`
	WonDeals    int     `json:"wonDeals"`
	AvgDealSize float64 `json:"avgDealSize"`
	WinRate     float64 `json:"winRate"`
}

type Summary struct {
	TotalReferredValue float64 `json:"totalReferredValue"`
	TotalReferredDeals int     `json:"totalReferredDeals"`
	AvgReferralValue   float64 `json:"avgReferralValue"`
	TopReferrer        string  `json:"topReferrer,omitempty"`
	TopReferralTeam    string  `json:"topReferralTeam,omitempty"`
}

type Report struct {
	ByContact map[string]*Group `json:"byContact"`
	ByTeam    map[string]*Group `json:"byTeam"`
	ByType    map[string]*Group `json:"byType"`
	Summary   Summary           `json:"summary"`
}

type accumulator struct {
	groups map[string]*Group
	order  []string
}

func newAccumulator() *accumulator {
	return &accumulator{groups: make(map[string]*Group)}
}

func (a *accumulator) add(key string, d Deal) {
	if key == "" {
		return
	}
	g, ok := a.groups[key]
	if !ok {
		g = &Group{Key: key}
		a.groups[key] = g
		a.order = append(a.order, key)
	}
	g.TotalValue += d.Value
	g.DealCount++
	if d.Stage == stageWon {
		g.WonValue += d.Value
		g.WonDeals++
	}
}

func (a *accumulator) finalize() {
	for _, g := range a.groups {
		if g.DealCount > 0 {
			g.AvgDealSize = g.TotalValue / float64(g.DealCount)
			g.WinRate = float64(g.WonDeals) / float64(g.DealCount) * 100
		}
	}
}

// top returns the key of the group with the highest won value, walking groups
// in encounter order so equal won values resolve to the first one seen.
func (a *accumulator) top() string {
	best := ""
	bestWon := -1.0
	for _, key := range a.order {
		if g := a.groups[key]; g.WonValue > bestWon {
			best = key
			bestWon = g.WonValue
		}
	}
	return best
}

// Aggregate builds the referral attribution report over the full deal
// collection.
func Aggregate(deals []Deal) Report {
	byContact := newAccumulator()
	byTeam := newAccumulator()
	byType := newAccumulator()

	var summary Summary
	for _, d := range deals {
		if d.ReferralSource == "" {
			continue
		}
		summary.TotalReferredValue += d.Value
		summary.TotalReferredDeals++

		byContact.add(d.ReferralSource, d)
		byTeam.add(d.ReferralTeam, d)
		byType.add(d.ReferralType, d)
	}

	byContact.finalize()
	byTeam.finalize()
	byType.finalize()

	if summary.TotalReferredDeals > 0 {
		summary.AvgReferralValue = summary.TotalReferredValue / float64(summary.TotalReferredDeals)
	}
	summary.TopReferrer = byContact.top()
	summary.TopReferralTeam = byTeam.top()

	return Report{
		ByContact: byContact.groups,
		ByTeam:    byTeam.groups,
		ByType:    byType.groups,
		Summary:   summary,
	}
}
