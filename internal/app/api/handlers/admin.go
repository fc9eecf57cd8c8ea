package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epetitpas/aischool/internal/app/service/user"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/response"
	"github.com/epetitpas/aischool/pkg/types"
)

type adminListUsersResp struct {
	Users      []*models.User    `json:"users"`
	Pagination *types.Pagination `json:"pagination"`
}

// @Summary      List users (admin)
// @Tags         Admin
// @Produce      json
// @Param        page    query  int     false "page number"
// @Param        limit   query  int     false "page size"
// @Param        role    query  string  false "filter by role"
// @Param        status  query  string  false "filter by account status"
// @Param        search  query  string  false "search name or email"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users [get]
func ApiAdminListUsers(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			Page   int    `form:"page"`
			Limit  int    `form:"limit"`
			Role   string `form:"role"`
			Status string `form:"status"`
			Search string `form:"search"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}
		users, pg, err := svc.List(c.Request.Context(), &user.ListRequest{
			Page:   q.Page,
			Limit:  q.Limit,
			Role:   types.Role(q.Role),
			Status: types.AccountStatus(q.Status),
			Search: q.Search,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(adminListUsersResp{Users: users, Pagination: pg}))
	}
}

type adminCreateUserReq struct {
	Email       string         `json:"email" binding:"required,email"`
	Name        string         `json:"name" binding:"required"`
	Role        types.Role     `json:"role"`
	Preferences map[string]any `json:"preferences"`
}

// @Summary      Create user (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body adminCreateUserReq true "user to create"
// @Success      201  {object}  handlers.RespOK
// @Router       /api/v1/admin/users [post]
func ApiAdminCreateUser(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminCreateUserReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		u, err := svc.Create(c.Request.Context(), &user.CreateRequest{
			Email:       req.Email,
			Name:        req.Name,
			Role:        req.Role,
			Preferences: req.Preferences,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(u))
	}
}

type adminUpdateStatusReq struct {
	Status types.AccountStatus `json:"status" binding:"required,oneof=ACTIVE PENDING_VALIDATION INACTIVE"`
}

// @Summary      Update user status (admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "user id"
// @Param        request body adminUpdateStatusReq true "new status"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users/{id}/status [patch]
func ApiAdminUpdateUserStatus(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminUpdateStatusReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		u, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

// @Summary      Deactivate user (admin)
// @Description  Soft delete: anonymises the email and marks the account inactive.
// @Tags         Admin
// @Produce      json
// @Param        id  path  string  true  "user id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users/{id} [delete]
func ApiAdminDeleteUser(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.SoftDelete(c.Request.Context(), c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAdminRoutes(r gin.IRouter, users *user.Service) {
	r.GET("/users", ApiAdminListUsers(users))
	r.POST("/users", ApiAdminCreateUser(users))
	r.PATCH("/users/:id/status", ApiAdminUpdateUserStatus(users))
	r.DELETE("/users/:id", ApiAdminDeleteUser(users))
}
