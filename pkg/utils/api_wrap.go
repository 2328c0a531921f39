package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// statusFor maps our sentinel errors to HTTP status codes.
var statusFor = []struct {
	err  error
	code int
}{
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrAccountExists, http.StatusConflict},
	{ErrProRequired, http.StatusForbidden},
	{ErrAlreadyPro, http.StatusConflict},
	{ErrNoAthlete, http.StatusConflict},
	{ErrUnknownAthlete, http.StatusNotFound},
	{ErrAthleteLimit, http.StatusConflict},
	{ErrGoalLimit, http.StatusConflict},
	{ErrInvalidAthleteName, http.StatusBadRequest},
	{ErrNothingToLog, http.StatusBadRequest},
	{ErrInvalidSkill, http.StatusBadRequest},
	{ErrUnknownDrill, http.StatusBadRequest},
	{ErrInvalidDate, http.StatusBadRequest},
	{ErrBillingNotConfigured, http.StatusServiceUnavailable},
}

// HandleServiceError writes the error envelope. Backend rejections pass their
// raw message through untranslated.
func HandleServiceError(c *gin.Context, err error) {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			RespondError(c, m.code, m.err.Error())
			return
		}
	}

	var rejection BackendRejection
	if errors.As(err, &rejection) {
		zap.L().Warn("backend rejected request",
			zap.String("trace_id", c.GetString("trace_id")),
			zap.Int("status", rejection.BackendStatus()),
			zap.String("code", rejection.BackendCode()),
			zap.Error(err))
		RespondError(c, http.StatusBadGateway, rejection.Error())
		return
	}
	if errors.Is(err, ErrBackendUnavailable) {
		zap.L().Error("backend unreachable", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
		RespondError(c, http.StatusBadGateway, "Backend unavailable")
		return
	}

	zap.L().Error("unhandled error", zap.String("trace_id", c.GetString("trace_id")), zap.Error(err))
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
