package controllers

import (
	"github.com/gin-gonic/gin"

	"practicelog/internal/catalog"
	"practicelog/pkg/utils"
)

type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

type focusAreaView struct {
	ID     string          `json:"id"`
	Label  string          `json:"label"`
	Drills []catalog.Drill `json:"drills"`
}

// Drills godoc
// @Summary Focus areas and their drills
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /catalog/drills [get]
func (cc *CatalogController) Drills(c *gin.Context) {
	out := make([]focusAreaView, 0, len(catalog.FocusAreas))
	for _, area := range catalog.FocusAreas {
		out = append(out, focusAreaView{ID: string(area), Label: area.Label(), Drills: catalog.DrillsFor(area)})
	}
	utils.RespondSuccess(c, out, "")
}

func (cc *CatalogController) Health(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
}
