package services

import (
	"context"
	"math"
	"time"

	"practicelog/internal/catalog"
	"practicelog/internal/models/response_models"
	"practicelog/internal/store"
	"practicelog/internal/tier"
	"practicelog/internal/workspace"
	"practicelog/pkg/utils"
)

const (
	ChartWeeks        = 8
	ChartActivityDays = 30
)

type DashboardServiceInterface interface {
	Dashboard(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*response_models.Dashboard, error)
	Reload(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*response_models.Dashboard, error)
	Charts(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*response_models.Charts, error)
}

type DashboardService struct {
	logbook LogbookServiceInterface
	now     func() time.Time
}

func NewDashboardService(logbook LogbookServiceInterface) DashboardServiceInterface {
	return &DashboardService{logbook: logbook, now: time.Now}
}

// Dashboard returns the home screen even when the load failed part way; the
// failure is carried in the Error field like any other store error.
func (d *DashboardService) Dashboard(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*response_models.Dashboard, error) {
	state, err := d.logbook.State(ctx, ws, prefs)
	if err != nil && state.Phase == "" {
		return nil, err
	}
	out := BuildDashboard(state, ws.Entitlement(), d.now())
	return &out, nil
}

// Reload re-reads everything for the signed-in user, e.g. after another
// device logged a practice.
func (d *DashboardService) Reload(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*response_models.Dashboard, error) {
	state, err := d.logbook.Reload(ctx, ws, prefs)
	if err != nil && state.Phase == "" {
		return nil, err
	}
	out := BuildDashboard(state, ws.Entitlement(), d.now())
	return &out, nil
}

func (d *DashboardService) Charts(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*response_models.Charts, error) {
	if !ws.Entitlement().CanSeeCharts() {
		return nil, utils.ErrProRequired
	}
	state, err := d.logbook.State(ctx, ws, prefs)
	if err != nil {
		return nil, err
	}
	out := BuildCharts(state.Practices, d.now())
	return &out, nil
}

// Badge labels practices logged this week.
func Badge(practices int) string {
	switch {
	case practices >= 5:
		return "On Fire"
	case practices >= 3:
		return "Building Momentum"
	case practices >= 1:
		return "Getting Started"
	}
	return "Ready to Start"
}

// WeekStats counts practices dated on or after Monday of the current week.
func WeekStats(practices []response_models.Practice, now time.Time) response_models.WeekStats {
	start := utils.StartOfWeek(now)
	var stats response_models.WeekStats
	for _, p := range practices {
		day, ok := practiceDay(p)
		if !ok || day.Before(start) {
			continue
		}
		stats.PracticesThisWeek++
		stats.MinutesThisWeek += p.Duration
	}
	stats.Badge = Badge(stats.PracticesThisWeek)
	return stats
}

func BuildDashboard(state store.State, ent tier.Entitlement, now time.Time) response_models.Dashboard {
	out := response_models.Dashboard{
		Phase:          string(state.Phase),
		Athletes:       state.Athletes,
		CurrentAthlete: state.CurrentAthlete(),
		Stats:          WeekStats(state.Practices, now),
		Goals:          state.Goals,
		Recent:         state.Practices,
		Features:       ent.Features(),
		Saving:         state.Saving,
		Error:          state.Error,
	}
	if len(state.Practices) > 0 {
		last := state.Practices[0]
		out.LastSession = &last
	}
	if ent.CanSeeDrillFrequency() {
		out.DrillFrequency = make([]response_models.DrillUsage, 0, len(state.DrillFrequency))
		for _, f := range state.DrillFrequency {
			out.DrillFrequency = append(out.DrillFrequency, response_models.DrillUsage{
				DrillID: f.DrillID,
				Name:    catalog.DrillName(f.DrillID),
				Count:   f.UsageCount,
			})
		}
	}
	return out
}

// BuildCharts covers the last ChartWeeks weeks and ChartActivityDays days,
// oldest first, ending with the current week and today.
func BuildCharts(practices []response_models.Practice, now time.Time) response_models.Charts {
	thisWeek := utils.StartOfWeek(now)
	firstWeek := thisWeek.AddDate(0, 0, -7*(ChartWeeks-1))
	weekly := make([]response_models.WeekTotal, ChartWeeks)
	for i := range weekly {
		weekly[i].WeekStart = firstWeek.AddDate(0, 0, 7*i).Format("2006-01-02")
	}

	today := utils.StartOfDay(now)
	firstDay := today.AddDate(0, 0, -(ChartActivityDays - 1))
	activity := make([]response_models.DayActivity, ChartActivityDays)
	for i := range activity {
		activity[i].Date = firstDay.AddDate(0, 0, i).Format("2006-01-02")
	}

	focusCounts := map[catalog.FocusArea]int{}
	tags := 0
	for _, p := range practices {
		for _, a := range p.FocusAreas {
			if area, ok := catalog.ParseFocusArea(a); ok {
				focusCounts[area]++
				tags++
			}
		}

		day, ok := practiceDay(p)
		if !ok || day.After(today) {
			continue
		}
		if !day.Before(firstWeek) {
			w := &weekly[int(day.Sub(firstWeek).Hours()/24)/7]
			w.Practices++
			w.Minutes += p.Duration
		}
		if !day.Before(firstDay) {
			activity[int(day.Sub(firstDay).Hours()/24)].Minutes += p.Duration
		}
	}

	focus := make([]response_models.FocusShare, 0, len(catalog.FocusAreas))
	for _, area := range catalog.FocusAreas {
		share := response_models.FocusShare{Area: string(area), Label: area.Label(), Count: focusCounts[area]}
		if tags > 0 {
			share.Percent = math.Round(float64(share.Count)*1000/float64(tags)) / 10
		}
		focus = append(focus, share)
	}

	return response_models.Charts{Weekly: weekly, Focus: focus, Activity: activity}
}

func practiceDay(p response_models.Practice) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
