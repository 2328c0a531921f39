package services

import (
	"context"
	"strings"
	"time"

	"practicelog/internal/catalog"
	"practicelog/internal/models/db_models"
	"practicelog/internal/models/request_models"
	"practicelog/internal/models/response_models"
	"practicelog/internal/store"
	"practicelog/internal/workspace"
	"practicelog/pkg/utils"
)

// LogbookServiceInterface runs the store operations for the signed-in user of
// a workspace, evaluating the entitlement fresh for every call.
type LogbookServiceInterface interface {
	// State loads the store on first use and returns its snapshot.
	State(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (store.State, error)
	Reload(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (store.State, error)
	AddAthlete(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, req request_models.CreateAthleteRequest) (*db_models.Athlete, error)
	SelectAthlete(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, athleteID string) (store.State, error)
	FormDefaults(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (store.QuickLogForm, error)
	LogPractice(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, req request_models.QuickLogRequest) (*response_models.Practice, error)
	SaveGoal(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, skill string, req request_models.SaveGoalRequest) (response_models.GoalMap, error)
	DismissError(ws *workspace.Workspace) error
}

type LogbookService struct {
	now func() time.Time
}

func NewLogbookService() LogbookServiceInterface {
	return &LogbookService{now: time.Now}
}

func (l *LogbookService) State(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (store.State, error) {
	st, err := ws.Store()
	if err != nil {
		return store.State{}, err
	}
	if st.Snapshot().Phase == store.PhaseLoading {
		if err := st.LoadData(ws.Context(ctx), ws.Entitlement(), prefs); err != nil {
			return st.Snapshot(), err
		}
	}
	return st.Snapshot(), nil
}

func (l *LogbookService) Reload(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (store.State, error) {
	st, err := ws.Store()
	if err != nil {
		return store.State{}, err
	}
	err = st.LoadData(ws.Context(ctx), ws.Entitlement(), prefs)
	return st.Snapshot(), err
}

func (l *LogbookService) AddAthlete(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, req request_models.CreateAthleteRequest) (*db_models.Athlete, error) {
	st, err := l.loaded(ctx, ws, prefs)
	if err != nil {
		return nil, err
	}
	return st.AddAthlete(ws.Context(ctx), ws.Entitlement(), prefs, req.Name)
}

func (l *LogbookService) SelectAthlete(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, athleteID string) (store.State, error) {
	st, err := l.loaded(ctx, ws, prefs)
	if err != nil {
		return store.State{}, err
	}
	if err := st.SwitchAthlete(ws.Context(ctx), ws.Entitlement(), prefs, athleteID); err != nil {
		return st.Snapshot(), err
	}
	return st.Snapshot(), nil
}

func (l *LogbookService) FormDefaults(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (store.QuickLogForm, error) {
	st, err := ws.Store()
	if err != nil {
		return store.QuickLogForm{}, err
	}
	return st.Snapshot().Form, nil
}

func (l *LogbookService) LogPractice(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, req request_models.QuickLogRequest) (*response_models.Practice, error) {
	in, err := l.quickLogInput(req)
	if err != nil {
		return nil, err
	}
	st, err := l.loaded(ctx, ws, prefs)
	if err != nil {
		return nil, err
	}
	return st.QuickLog(ws.Context(ctx), ws.Entitlement(), in)
}

func (l *LogbookService) SaveGoal(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference, skill string, req request_models.SaveGoalRequest) (response_models.GoalMap, error) {
	area, ok := catalog.ParseFocusArea(skill)
	if !ok {
		return nil, utils.ErrInvalidSkill
	}
	st, err := l.loaded(ctx, ws, prefs)
	if err != nil {
		return nil, err
	}
	if err := st.SaveGoal(ws.Context(ctx), ws.Entitlement(), area, req.Text); err != nil {
		return nil, err
	}
	return st.Snapshot().Goals, nil
}

func (l *LogbookService) DismissError(ws *workspace.Workspace) error {
	st, err := ws.Store()
	if err != nil {
		return err
	}
	st.DismissError()
	return nil
}

// loaded makes sure the first load ran, so writes arriving on a fresh or
// restored workspace see the current athlete.
func (l *LogbookService) loaded(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (*store.Store, error) {
	if _, err := l.State(ctx, ws, prefs); err != nil {
		return nil, err
	}
	return ws.Store()
}

// quickLogInput validates the form beyond what request binding covers.
func (l *LogbookService) quickLogInput(req request_models.QuickLogRequest) (store.QuickLogInput, error) {
	date := db_models.NewCalendarDate(l.now())
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := db_models.ParseCalendarDate(req.Date)
		if err != nil {
			return store.QuickLogInput{}, utils.ErrInvalidDate
		}
		date = parsed
	}

	areas := make([]string, 0, len(req.FocusAreas))
	seen := map[string]bool{}
	for _, a := range req.FocusAreas {
		area, ok := catalog.ParseFocusArea(a)
		if !ok {
			return store.QuickLogInput{}, utils.ErrInvalidSkill
		}
		if !seen[string(area)] {
			seen[string(area)] = true
			areas = append(areas, string(area))
		}
	}

	drills := make([]string, 0, len(req.Drills))
	for _, id := range req.Drills {
		if _, ok := catalog.LookupDrill(id); !ok {
			return store.QuickLogInput{}, utils.ErrUnknownDrill
		}
		drills = append(drills, id)
	}

	return store.QuickLogInput{
		Date:       date,
		Duration:   req.Duration,
		FocusAreas: areas,
		Note:       req.Note,
		Reflection: req.Reflection,
		Drills:     drills,
	}, nil
}
