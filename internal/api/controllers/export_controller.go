package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"practicelog/internal/services"
	"practicelog/pkg/middleware"
	"practicelog/pkg/utils"
)

type ExportController struct {
	export services.ExportServiceInterface
}

func NewExportController(export services.ExportServiceInterface) *ExportController {
	return &ExportController{export: export}
}

// CSV godoc
// @Summary Download the practice history as CSV (Pro)
// @Tags Export
// @Produce text/csv
// @Router /export/csv [get]
func (e *ExportController) CSV(c *gin.Context) {
	file, err := e.export.CSV(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// Report godoc
// @Summary Printable HTML practice report (Pro)
// @Tags Export
// @Produce text/html
// @Router /export/report [get]
func (e *ExportController) Report(c *gin.Context) {
	file, err := e.export.Report(c.Request.Context(), middleware.WorkspaceFrom(c), middleware.PreferenceFrom(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
