package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"practicelog/internal/identity"
	"practicelog/internal/models/request_models"
	"practicelog/internal/models/response_models"
	"practicelog/internal/store"
	"practicelog/internal/workspace"
)

type AuthServiceInterface interface {
	SignIn(ctx context.Context, ws *workspace.Workspace, req request_models.SignInRequest) (response_models.SessionView, error)
	SignUp(ctx context.Context, ws *workspace.Workspace, req request_models.SignUpRequest) (response_models.SignUpView, error)
	SignOut(ctx context.Context, ws *workspace.Workspace) error
	Session(ws *workspace.Workspace) response_models.SessionView
	RefreshProfile(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (response_models.SessionView, error)
}

type AuthService struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewAuthService(logger *zap.Logger) AuthServiceInterface {
	return &AuthService{logger: logger, now: time.Now}
}

func (a *AuthService) SignIn(ctx context.Context, ws *workspace.Workspace, req request_models.SignInRequest) (response_models.SessionView, error) {
	start := time.Now()
	if err := ws.Identity.SignIn(ctx, req.Email, req.Password); err != nil {
		return response_models.SessionView{}, err
	}
	a.logger.Info("signed in", zap.String("user_id", ws.Identity.State().UserID()), zap.Duration("took", time.Since(start)))
	return a.Session(ws), nil
}

func (a *AuthService) SignUp(ctx context.Context, ws *workspace.Workspace, req request_models.SignUpRequest) (response_models.SignUpView, error) {
	res, err := ws.Identity.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return response_models.SignUpView{}, err
	}
	return response_models.SignUpView{ConfirmationPending: res.ConfirmationPending, Session: a.Session(ws)}, nil
}

func (a *AuthService) SignOut(ctx context.Context, ws *workspace.Workspace) error {
	return ws.Identity.SignOut(ctx)
}

func (a *AuthService) Session(ws *workspace.Workspace) response_models.SessionView {
	return sessionView(ws.Identity.State(), a.now())
}

// RefreshProfile re-reads the profile. When the tier changed, an already
// loaded roster is reloaded so the athlete cap matches the new entitlement.
func (a *AuthService) RefreshProfile(ctx context.Context, ws *workspace.Workspace, prefs store.AthletePreference) (response_models.SessionView, error) {
	wasPro := ws.Entitlement().Pro
	if err := ws.Identity.RefreshProfile(ctx); err != nil {
		return response_models.SessionView{}, err
	}
	ent := ws.Entitlement()
	if ent.Pro == wasPro {
		return a.Session(ws), nil
	}
	st, err := ws.Store()
	if err != nil {
		return response_models.SessionView{}, err
	}
	if st.Snapshot().Phase != store.PhaseLoading {
		if err := st.LoadData(ws.Context(ctx), ent, prefs); err != nil {
			return response_models.SessionView{}, err
		}
	}
	a.logger.Info("entitlement changed", zap.String("user_id", ws.Identity.State().UserID()), zap.Bool("pro", ent.Pro))
	return a.Session(ws), nil
}

func sessionView(state identity.State, now time.Time) response_models.SessionView {
	view := response_models.SessionView{
		SignedIn: state.SignedIn(),
		Features: state.Entitlement(now).Features(),
	}
	if state.User != nil {
		view.User = &response_models.UserView{ID: state.User.ID, Email: state.User.Email}
		view.Profile = state.Profile
	}
	return view
}
