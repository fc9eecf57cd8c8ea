package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epetitpas/aischool/internal/app/service/plan"
	"github.com/epetitpas/aischool/pkg/response"
)

// @Summary      List subscription plans
// @Description  Returns the public plan catalog, cheapest first.
// @Tags         Plans
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/plans [get]
func ApiListPlans(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := svc.List(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

func RegisterPlanRoutes(r gin.IRouter, svc *plan.Service) {
	r.GET("/plans", ApiListPlans(svc))
}
