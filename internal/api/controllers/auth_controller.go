package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"practicelog/internal/models/request_models"
	"practicelog/internal/services"
	"practicelog/pkg/middleware"
	"practicelog/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignInRequest true "Credentials"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /auth/sign-in [post]
func (a *AuthController) SignIn(c *gin.Context) {
	var req request_models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	ws := middleware.WorkspaceFrom(c)
	view, err := a.authService.SignIn(c.Request.Context(), ws, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	a.persist(c)
	utils.RespondSuccess(c, view, "Signed in")
}

// SignUp godoc
// @Summary Create an account
// @Description Responds with confirmation_pending when the email must be confirmed first
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Credentials"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /auth/sign-up [post]
func (a *AuthController) SignUp(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	view, err := a.authService.SignUp(c.Request.Context(), middleware.WorkspaceFrom(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if view.ConfirmationPending {
		utils.RespondSuccess(c, view, "Check your email to confirm your account")
		return
	}
	a.persist(c)
	utils.RespondSuccess(c, view, "Account created")
}

// SignOut godoc
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /auth/sign-out [post]
func (a *AuthController) SignOut(c *gin.Context) {
	if err := a.authService.SignOut(c.Request.Context(), middleware.WorkspaceFrom(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if err := middleware.EndWorkspace(c); err != nil {
		a.logger.Warn("could not clear session cookie", zap.Error(err))
	}
	utils.RespondSuccess(c, nil, "Signed out")
}

// Session godoc
// @Summary Current user, profile and feature flags
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /auth/session [get]
func (a *AuthController) Session(c *gin.Context) {
	utils.RespondSuccess(c, a.authService.Session(middleware.WorkspaceFrom(c)), "")
}

// RefreshProfile godoc
// @Summary Re-read the profile, e.g. after upgrading
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /profile/refresh [post]
func (a *AuthController) RefreshProfile(c *gin.Context) {
	view, err := a.authService.RefreshProfile(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "Profile refreshed")
}

func (a *AuthController) persist(c *gin.Context) {
	if err := middleware.PersistSession(c, middleware.WorkspaceFrom(c)); err != nil {
		a.logger.Warn("could not save session cookie", zap.Error(err))
	}
}
