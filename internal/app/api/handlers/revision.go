package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/epetitpas/aischool/internal/app/api/middleware"
	"github.com/epetitpas/aischool/internal/app/service/revision"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/response"
	"github.com/epetitpas/aischool/pkg/types"
)

type createRevisionReq struct {
	Title        string             `json:"title" binding:"required"`
	Subject      string             `json:"subject" binding:"required"`
	GradeLevel   string             `json:"grade_level" binding:"required"`
	QuestionIDs  []string           `json:"question_ids" binding:"required,min=1"`
	ExportFormat types.ExportFormat `json:"export_format"`
}

// @Summary      Create revision sheet
// @Description  Builds a revision sheet from the caller's selected questions.
// @Tags         Revisions
// @Accept       json
// @Produce      json
// @Param        request body createRevisionReq true "Sheet definition"
// @Success      201  {object}  handlers.RespOK
// @Router       /api/v1/revisions [post]
func ApiCreateRevisionSheet(svc *revision.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRevisionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		u := mw.CurrentUser(c)
		sheet, err := svc.Create(c.Request.Context(), u.ID, &revision.CreateRequest{
			Title:        req.Title,
			Subject:      req.Subject,
			GradeLevel:   req.GradeLevel,
			QuestionIDs:  req.QuestionIDs,
			ExportFormat: req.ExportFormat,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(sheet))
	}
}

type listRevisionsResp struct {
	Sheets     []*models.RevisionSheet `json:"sheets"`
	Pagination *types.Pagination       `json:"pagination"`
}

// @Summary      List revision sheets
// @Tags         Revisions
// @Produce      json
// @Param        page   query  int  false "page number"
// @Param        limit  query  int  false "page size"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/revisions [get]
func ApiListRevisionSheets(svc *revision.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			Page  int `form:"page"`
			Limit int `form:"limit"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}
		u := mw.CurrentUser(c)
		sheets, pg, err := svc.List(c.Request.Context(), u.ID, q.Page, q.Limit)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(listRevisionsResp{Sheets: sheets, Pagination: pg}))
	}
}

// @Summary      Get revision sheet
// @Tags         Revisions
// @Produce      json
// @Param        id  path  string  true  "sheet id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/revisions/{id} [get]
func ApiGetRevisionSheet(svc *revision.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		sheet, err := svc.Get(c.Request.Context(), u.ID, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sheet))
	}
}

// @Summary      Delete revision sheet
// @Tags         Revisions
// @Produce      json
// @Param        id  path  string  true  "sheet id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/revisions/{id} [delete]
func ApiDeleteRevisionSheet(svc *revision.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		if err := svc.Delete(c.Request.Context(), u.ID, c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterRevisionRoutes(r gin.IRouter, svc *revision.Service) {
	r.POST("", ApiCreateRevisionSheet(svc))
	r.GET("", ApiListRevisionSheets(svc))
	r.GET("/:id", ApiGetRevisionSheet(svc))
	r.DELETE("/:id", ApiDeleteRevisionSheet(svc))
}
