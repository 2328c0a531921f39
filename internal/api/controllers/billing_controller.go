package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practicelog/internal/models/request_models"
	"practicelog/internal/services"
	"practicelog/pkg/middleware"
	"practicelog/pkg/utils"
)

type BillingController struct {
	billing services.BillingServiceInterface
}

func NewBillingController(billing services.BillingServiceInterface) *BillingController {
	return &BillingController{billing: billing}
}

// Checkout godoc
// @Summary Start the Pro upgrade checkout
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CheckoutRequest false "Return path"
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /billing/checkout [post]
func (b *BillingController) Checkout(c *gin.Context) {
	var req request_models.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}
	view, err := b.billing.Checkout(c.Request.Context(), middleware.WorkspaceFrom(c), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, view, "")
}
