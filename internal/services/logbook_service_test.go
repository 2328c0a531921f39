package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"practicelog/internal/gateway/gatewaytest"
	"practicelog/internal/identity/identitytest"
	"practicelog/internal/models/request_models"
	"practicelog/internal/repositories"
	"practicelog/internal/store"
	"practicelog/internal/workspace"
	"practicelog/pkg/utils"
)

type serviceEnv struct {
	mem      *gatewaytest.Memory
	provider *identitytest.Provider
	registry *workspace.Registry
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	mem := gatewaytest.NewMemory()
	provider := identitytest.NewProvider()
	factory := workspace.NewFactory(mem, provider, workspace.Config{DrillInsertMode: store.DrillInsertBatch, TTL: time.Hour}, zap.NewNop())
	return &serviceEnv{mem: mem, provider: provider, registry: workspace.NewRegistry(factory, zap.NewNop())}
}

// signedIn returns a workspace with a fresh user signed in.
func (e *serviceEnv) signedIn(t *testing.T, pro bool) *workspace.Workspace {
	t.Helper()
	email := uuid.NewString() + "@example.com"
	id := e.provider.AddUser(email, "secret1")
	e.mem.Seed("profiles", map[string]any{"id": id, "is_pro": pro})
	ws := e.registry.Create()
	require.NoError(t, ws.Identity.SignIn(t.Context(), email, "secret1"))
	return ws
}

func (e *serviceEnv) seedAthlete(ws *workspace.Workspace, name string) string {
	id := uuid.NewString()
	e.mem.Seed("athletes", map[string]any{"id": id, "user_id": ws.Identity.State().UserID(), "name": name})
	return id
}

func TestStateLoadsOnce(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, false)
	env.seedAthlete(ws, "Ava")
	svc := NewLogbookService()
	prefs := &store.MemoryPreference{}

	state, err := svc.State(t.Context(), ws, prefs)
	require.NoError(t, err)
	assert.Equal(t, store.PhaseReady, state.Phase)

	_, err = svc.State(t.Context(), ws, prefs)
	require.NoError(t, err)
	assert.Len(t, env.mem.CallsTo("athletes", "select"), 1)

	_, err = svc.Reload(t.Context(), ws, prefs)
	require.NoError(t, err)
	assert.Len(t, env.mem.CallsTo("athletes", "select"), 2)
}

func TestStateRequiresSignIn(t *testing.T) {
	env := newServiceEnv(t)
	_, err := NewLogbookService().State(t.Context(), env.registry.Create(), &store.MemoryPreference{})
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}

func TestLogPracticeValidation(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, true)
	env.seedAthlete(ws, "Ava")
	svc := NewLogbookService()
	prefs := &store.MemoryPreference{}
	_, err := svc.State(t.Context(), ws, prefs)
	require.NoError(t, err)

	_, err = svc.LogPractice(t.Context(), ws, prefs, request_models.QuickLogRequest{Date: "04/10/2025", Duration: 30, FocusAreas: []string{"hitting"}})
	assert.ErrorIs(t, err, utils.ErrInvalidDate)

	_, err = svc.LogPractice(t.Context(), ws, prefs, request_models.QuickLogRequest{Duration: 30, FocusAreas: []string{"hitting"}, Drills: []string{"moonwalk"}})
	assert.ErrorIs(t, err, utils.ErrUnknownDrill)
	assert.Empty(t, env.mem.CallsTo("sessions", "insert"))

	practice, err := svc.LogPractice(t.Context(), ws, prefs, request_models.QuickLogRequest{
		Duration:   30,
		FocusAreas: []string{"Hitting", "hitting", "fielding"},
		Drills:     []string{"tee-work"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hitting", "fielding"}, practice.FocusAreas)
	assert.NotEmpty(t, practice.Date)
	assert.Len(t, env.mem.Rows("session_drills"), 1)

	calls := env.mem.CallsTo("sessions", "insert")
	require.Len(t, calls, 1)
	assert.Equal(t, ws.Identity.State().AccessToken, calls[0].Token)
}

func TestSaveGoalThroughService(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, false)
	env.seedAthlete(ws, "Ava")
	svc := NewLogbookService()
	prefs := &store.MemoryPreference{}
	_, err := svc.State(t.Context(), ws, prefs)
	require.NoError(t, err)

	_, err = svc.SaveGoal(t.Context(), ws, prefs, "swimming", request_models.SaveGoalRequest{Text: "x"})
	assert.ErrorIs(t, err, utils.ErrInvalidSkill)

	goals, err := svc.SaveGoal(t.Context(), ws, prefs, "pitching", request_models.SaveGoalRequest{Text: "hit spots"})
	require.NoError(t, err)
	require.NotNil(t, goals["pitching"])
	assert.Equal(t, "hit spots", goals["pitching"].Text)
}

func TestWritesLoadFreshWorkspaceFirst(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, false)
	athleteID := env.seedAthlete(ws, "Ava")
	svc := NewLogbookService()

	practice, err := svc.LogPractice(t.Context(), ws, &store.MemoryPreference{}, request_models.QuickLogRequest{
		Duration:   40,
		FocusAreas: []string{"fielding"},
	})
	require.NoError(t, err)
	assert.Equal(t, athleteID, practice.AthleteID)
	assert.Len(t, env.mem.CallsTo("sessions", "insert"), 1)

	other := env.signedIn(t, false)
	env.seedAthlete(other, "Ben")
	goals, err := svc.SaveGoal(t.Context(), other, &store.MemoryPreference{}, "hitting", request_models.SaveGoalRequest{Text: "stay back"})
	require.NoError(t, err)
	require.NotNil(t, goals["hitting"])

	third := env.signedIn(t, false)
	env.seedAthlete(third, "Cy")
	form, err := svc.FormDefaults(t.Context(), third, &store.MemoryPreference{})
	require.NoError(t, err)
	state, err := svc.State(t.Context(), third, &store.MemoryPreference{})
	require.NoError(t, err)
	assert.Equal(t, store.PhaseReady, state.Phase)
	assert.Equal(t, state.Form, form)
}

func TestExportRequiresPro(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, false)
	svc := NewExportService(NewLogbookService(), repositories.NewPracticeRepository(env.mem), zap.NewNop())

	_, err := svc.CSV(t.Context(), ws, &store.MemoryPreference{})
	assert.ErrorIs(t, err, utils.ErrProRequired)
	assert.Empty(t, env.mem.CallsTo("sessions", ""))
}

func TestExportReadsFullHistory(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, true)
	athleteID := env.seedAthlete(ws, "Ava Jones")
	for i := 0; i < store.RecentPracticeLimit+3; i++ {
		env.mem.Seed("sessions", map[string]any{"athlete_id": athleteID, "date": "2025-04-01", "duration_minutes": 20, "focus_areas": []string{"hitting"}})
	}
	svc := NewExportService(NewLogbookService(), repositories.NewPracticeRepository(env.mem), zap.NewNop())

	file, err := svc.CSV(t.Context(), ws, &store.MemoryPreference{})
	require.NoError(t, err)
	assert.Contains(t, file.Name, "ava-jones-practices-")
	assert.Equal(t, store.RecentPracticeLimit+4, strings.Count(string(file.Body), "\n"))

	report, err := svc.Report(t.Context(), ws, &store.MemoryPreference{})
	require.NoError(t, err)
	assert.Contains(t, string(report.Body), "Showing the 50 most recent of 53 practices.")
}

func TestChartsRequirePro(t *testing.T) {
	env := newServiceEnv(t)
	ws := env.signedIn(t, false)
	svc := NewDashboardService(NewLogbookService())
	_, err := svc.Charts(t.Context(), ws, &store.MemoryPreference{})
	assert.ErrorIs(t, err, utils.ErrProRequired)
}
