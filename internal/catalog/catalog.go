// Package catalog holds the fixed focus-area enumeration and the static drill
// catalog. Drills are referenced by id from session_drills rows; they are not
// database entities.
package catalog

import "strings"

type FocusArea string

const (
	Hitting      FocusArea = "hitting"
	Pitching     FocusArea = "pitching"
	Fielding     FocusArea = "fielding"
	Conditioning FocusArea = "conditioning"
)

// FocusAreas lists the enumeration in display order.
var FocusAreas = []FocusArea{Hitting, Pitching, Fielding, Conditioning}

func (f FocusArea) Valid() bool {
	switch f {
	case Hitting, Pitching, Fielding, Conditioning:
		return true
	}
	return false
}

func (f FocusArea) Label() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

func ParseFocusArea(s string) (FocusArea, bool) {
	f := FocusArea(strings.ToLower(strings.TrimSpace(s)))
	return f, f.Valid()
}

type Drill struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FocusArea FocusArea `json:"focus_area"`
}

var drills = []Drill{
	{ID: "tee-work", Name: "Tee Work", FocusArea: Hitting},
	{ID: "soft-toss", Name: "Soft Toss", FocusArea: Hitting},
	{ID: "front-toss", Name: "Front Toss", FocusArea: Hitting},
	{ID: "live-batting", Name: "Live Batting", FocusArea: Hitting},
	{ID: "bunting", Name: "Bunting", FocusArea: Hitting},
	{ID: "wrist-snaps", Name: "Wrist Snaps", FocusArea: Pitching},
	{ID: "k-drill", Name: "K Drill", FocusArea: Pitching},
	{ID: "walk-throughs", Name: "Walk-Throughs", FocusArea: Pitching},
	{ID: "spin-work", Name: "Spin Work", FocusArea: Pitching},
	{ID: "bullpen", Name: "Bullpen", FocusArea: Pitching},
	{ID: "ground-balls", Name: "Ground Balls", FocusArea: Fielding},
	{ID: "fly-balls", Name: "Fly Balls", FocusArea: Fielding},
	{ID: "short-hops", Name: "Short Hops", FocusArea: Fielding},
	{ID: "quick-release", Name: "Quick Release", FocusArea: Fielding},
	{ID: "sprints", Name: "Sprints", FocusArea: Conditioning},
	{ID: "agility-ladder", Name: "Agility Ladder", FocusArea: Conditioning},
	{ID: "base-running", Name: "Base Running", FocusArea: Conditioning},
	{ID: "core-circuit", Name: "Core Circuit", FocusArea: Conditioning},
}

var drillsByID = func() map[string]Drill {
	m := make(map[string]Drill, len(drills))
	for _, d := range drills {
		m[d.ID] = d
	}
	return m
}()

// Drills returns a copy of the catalog.
func Drills() []Drill {
	out := make([]Drill, len(drills))
	copy(out, drills)
	return out
}

func DrillsFor(area FocusArea) []Drill {
	var out []Drill
	for _, d := range drills {
		if d.FocusArea == area {
			out = append(out, d)
		}
	}
	return out
}

func LookupDrill(id string) (Drill, bool) {
	d, ok := drillsByID[id]
	return d, ok
}

// DrillName falls back to the raw id for drills no longer in the catalog.
func DrillName(id string) string {
	if d, ok := drillsByID[id]; ok {
		return d.Name
	}
	return id
}
