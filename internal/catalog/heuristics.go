package catalog

import "strings"

// Profile is a day assignment strategy. Both bundled profiles pick an
// outbound/return pair of one variant per day; Mosjonist falls back to the
// <variant>1/<variant>2 split routes when no pair exists.
type Profile struct {
	Name          string
	Variant       string
	SplitFallback bool
}

var (
	Elite     = Profile{Name: "elite", Variant: "A"}
	Mosjonist = Profile{Name: "mosjonist", Variant: "B", SplitFallback: true}
)

func ProfileByName(name string) (Profile, bool) {
	switch strings.ToLower(name) {
	case Elite.Name:
		return Elite, true
	case Mosjonist.Name:
		return Mosjonist, true
	}
	return Profile{}, false
}

type Options struct {
	Event    string
	HomeBase string
}

func DefaultOptions() Options {
	return Options{Event: "26", HomeBase: "Helios"}
}

type Status string

const (
	StatusAssigned       Status = "assigned"
	StatusAmbiguousMatch Status = "ambiguous_match"
	StatusNoMatch        Status = "no_match"
)

const (
	SourcePair         = "pair"
	SourceCatalogOrder = "catalog-order"
	SourceSplit        = "split"
)

type DayResult struct {
	Day      int      `json:"day"`
	Status   Status   `json:"status"`
	Source   string   `json:"source,omitempty"`
	RouteIDs []string `json:"route_ids"`
}

// Report describes what a profile did to each day. OK is always true: an
// unmatched day is reported through its status, not as a failure.
type Report struct {
	Profile string      `json:"profile"`
	OK      bool        `json:"ok"`
	Days    []DayResult `json:"days"`
}

// Assigned counts the days that received routes.
func (r Report) Assigned() int {
	n := 0
	for _, d := range r.Days {
		if len(d.RouteIDs) > 0 {
			n++
		}
	}
	return n
}

// ApplyProfile clears every day and rebuilds the assignment from the route
// file names. Running it twice on the same catalog gives the same result.
func (c *Catalog) ApplyProfile(p Profile, opts Options) Report {
	if opts.Event == "" {
		opts.Event = DefaultOptions().Event
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clearDaysLocked()
	report := Report{Profile: p.Name, OK: true, Days: make([]DayResult, 0, DayCount)}
	for day := 1; day <= DayCount; day++ {
		result := c.assignDay(day, p, opts)
		c.days[day-1].RouteIDs = append([]string{}, result.RouteIDs...)
		report.Days = append(report.Days, result)
	}
	return report
}

func (c *Catalog) assignDay(day int, p Profile, opts Options) DayResult {
	result := DayResult{Day: day, Status: StatusNoMatch, RouteIDs: []string{}}

	var candidates []*Route
	for _, r := range c.routes {
		if r.Meta == nil || r.Meta.Event != opts.Event || r.Meta.Day != day {
			continue
		}
		if r.Meta.Variant == p.Variant && r.Meta.Pairable {
			candidates = append(candidates, r)
		}
	}

	if len(candidates) >= 2 {
		var outbound, ret *Route
		for _, r := range candidates {
			switch r.Meta.Direction(opts.HomeBase) {
			case DirectionOutbound:
				if outbound == nil {
					outbound = r
				}
			case DirectionReturn:
				if ret == nil {
					ret = r
				}
			}
		}
		if outbound != nil && ret != nil {
			result.Status = StatusAssigned
			result.Source = SourcePair
			result.RouteIDs = []string{outbound.ID, ret.ID}
			return result
		}
		result.Status = StatusAmbiguousMatch
		result.Source = SourceCatalogOrder
		result.RouteIDs = []string{candidates[0].ID, candidates[1].ID}
		return result
	}

	if !p.SplitFallback {
		return result
	}

	first := c.firstOfVariant(day, p.Variant+"1", opts.Event)
	second := c.firstOfVariant(day, p.Variant+"2", opts.Event)
	if first != nil && second != nil {
		result.Status = StatusAssigned
		result.Source = SourceSplit
		result.RouteIDs = []string{first.ID, second.ID}
	}
	return result
}

func (c *Catalog) firstOfVariant(day int, variant, event string) *Route {
	for _, r := range c.routes {
		if r.Meta != nil && r.Meta.Event == event && r.Meta.Day == day && r.Meta.Variant == variant {
			return r
		}
	}
	return nil
}
