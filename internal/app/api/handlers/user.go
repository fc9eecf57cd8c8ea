package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/epetitpas/aischool/internal/app/api/middleware"
	"github.com/epetitpas/aischool/internal/app/service/subscription"
	"github.com/epetitpas/aischool/internal/app/service/user"
	"github.com/epetitpas/aischool/pkg/response"
)

// @Summary      Get profile
// @Description  Returns the caller's account, subscription, quota and usage counters.
// @Tags         Users
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/users/profile [get]
func ApiGetProfile(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		profile, err := svc.Profile(c.Request.Context(), u.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(profile))
	}
}

type updateProfileReq struct {
	Name         string         `json:"name"`
	ProfileImage string         `json:"profile_image"`
	Preferences  map[string]any `json:"preferences"`
}

// @Summary      Update profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body updateProfileReq true "fields to update"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/users/profile [put]
func ApiUpdateProfile(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		u := mw.CurrentUser(c)
		updated, err := svc.Update(c.Request.Context(), u.ID, &user.UpdateRequest{
			Name:         req.Name,
			ProfileImage: req.ProfileImage,
			Preferences:  req.Preferences,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(updated))
	}
}

type subscribeReq struct {
	PlanID    string `json:"plan_id" binding:"required"`
	AutoRenew bool   `json:"auto_renew"`
}

// @Summary      Subscribe to a plan
// @Description  Puts the caller on a plan; any current subscription is cancelled. No payment is processed.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscribeReq true "plan selection"
// @Success      201  {object}  handlers.RespOK
// @Router       /api/v1/subscriptions [post]
func ApiSubscribe(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subscribeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		u := mw.CurrentUser(c)
		sub, err := svc.Subscribe(c.Request.Context(), u.ID, req.PlanID, req.AutoRenew)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(sub))
	}
}

// @Summary      Cancel subscription
// @Tags         Subscriptions
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/subscriptions [delete]
func ApiCancelSubscription(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		if err := svc.Cancel(c.Request.Context(), u.ID); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterUserRoutes(r gin.IRouter, users *user.Service, subs *subscription.Service) {
	r.GET("/users/profile", ApiGetProfile(users))
	r.PUT("/users/profile", ApiUpdateProfile(users))
	r.POST("/subscriptions", ApiSubscribe(subs))
	r.DELETE("/subscriptions", ApiCancelSubscription(subs))
}
