package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/epetitpas/aischool/internal/app/api/middleware"
	"github.com/epetitpas/aischool/internal/app/service/question"
	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/models"
	"github.com/epetitpas/aischool/pkg/response"
	"github.com/epetitpas/aischool/pkg/types"
)

type createQuestionReq struct {
	Subject      string `json:"subject" binding:"required"`
	GradeLevel   string `json:"grade_level" binding:"required"`
	QuestionText string `json:"question_text" binding:"required,min=10"`
	QuestionType string `json:"question_type"`
}

type createQuestionResp struct {
	Question *models.AIQuestion `json:"question"`
	Quota    *types.QuotaInfo   `json:"quota"`
}

// @Summary      Create AI question
// @Description  Asks the AI tutor a question. Consumes one unit of the daily quota.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request body createQuestionReq true "Question to ask"
// @Success      201  {object}  handlers.RespOK
// @Failure      429  {object}  handlers.RespOK "daily quota exceeded"
// @Router       /api/v1/questions [post]
func ApiCreateQuestion(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createQuestionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}

		u := mw.CurrentUser(c)
		q, info, err := svc.Create(c.Request.Context(), u.ID, &question.CreateRequest{
			Subject:      req.Subject,
			GradeLevel:   req.GradeLevel,
			QuestionText: req.QuestionText,
			QuestionType: req.QuestionType,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(createQuestionResp{Question: q, Quota: info}))
	}
}

type listQuestionsResp struct {
	Questions  []*models.AIQuestion `json:"questions"`
	Pagination *types.Pagination    `json:"pagination"`
}

// @Summary      List questions
// @Description  Returns the caller's question history with pagination, filters and search.
// @Tags         Questions
// @Produce      json
// @Param        page           query  int     false "page number"
// @Param        limit          query  int     false "page size"
// @Param        subject        query  string  false "filter by subject"
// @Param        grade_level    query  string  false "filter by grade level"
// @Param        question_type  query  string  false "filter by question type"
// @Param        is_bookmarked  query  bool    false "filter bookmarked"
// @Param        search         query  string  false "search in question and answer text"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions [get]
func ApiListQuestions(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q struct {
			Page         int    `form:"page"`
			Limit        int    `form:"limit"`
			Subject      string `form:"subject"`
			GradeLevel   string `form:"grade_level"`
			QuestionType string `form:"question_type"`
			IsBookmarked *bool  `form:"is_bookmarked"`
			Search       string `form:"search"`
			SortBy       string `form:"sort_by"`
			SortOrder    string `form:"sort_order"`
		}
		if err := c.ShouldBindQuery(&q); err != nil {
			writeBindError(c, err)
			return
		}

		u := mw.CurrentUser(c)
		rows, pg, err := svc.List(c.Request.Context(), u.ID, &question.ListRequest{
			Page:         q.Page,
			Limit:        q.Limit,
			Subject:      q.Subject,
			GradeLevel:   q.GradeLevel,
			QuestionType: q.QuestionType,
			IsBookmarked: q.IsBookmarked,
			Search:       q.Search,
			SortBy:       q.SortBy,
			SortOrder:    q.SortOrder,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(listQuestionsResp{Questions: rows, Pagination: pg}))
	}
}

// @Summary      Quota status
// @Description  Returns the caller's daily quota without consuming it or creating state.
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  handlers.RespQuotaStatus
// @Router       /api/v1/questions/quota/status [get]
func ApiQuotaStatus(ledger *quota.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		info, err := ledger.Status(c.Request.Context(), u.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Question statistics
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions/stats/overview [get]
func ApiQuestionStats(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		stats, err := svc.GetStats(c.Request.Context(), u.ID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(stats))
	}
}

// @Summary      Available subjects
// @Tags         Questions
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions/subjects [get]
func ApiAvailableSubjects() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, response.OKT(question.AvailableCatalog()))
	}
}

// @Summary      Get question
// @Tags         Questions
// @Produce      json
// @Param        id  path  string  true  "question id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions/{id} [get]
func ApiGetQuestion(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		q, err := svc.Get(c.Request.Context(), u.ID, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(q))
	}
}

// @Summary      Toggle bookmark
// @Tags         Questions
// @Produce      json
// @Param        id  path  string  true  "question id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions/{id}/bookmark [patch]
func ApiToggleBookmark(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		q, err := svc.ToggleBookmark(c.Request.Context(), u.ID, c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(q))
	}
}

// @Summary      Delete question
// @Tags         Questions
// @Produce      json
// @Param        id  path  string  true  "question id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions/{id} [delete]
func ApiDeleteQuestion(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := mw.CurrentUser(c)
		if err := svc.Delete(c.Request.Context(), u.ID, c.Param("id")); err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type bulkDeleteReq struct {
	QuestionIDs []string `json:"question_ids" binding:"required,min=1,max=50"`
}

// @Summary      Bulk delete questions
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request body bulkDeleteReq true "ids to delete"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/questions/bulk-delete [post]
func ApiBulkDeleteQuestions(svc *question.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkDeleteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		u := mw.CurrentUser(c)
		deleted, err := svc.BulkDelete(c.Request.Context(), u.ID, req.QuestionIDs)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"deleted": deleted}))
	}
}

func RegisterQuestionRoutes(r gin.IRouter, svc *question.Service, ledger *quota.Ledger) {
	r.POST("", ApiCreateQuestion(svc))
	r.GET("", ApiListQuestions(svc))
	// fixed paths must be registered before /:id
	r.GET("/quota/status", ApiQuotaStatus(ledger))
	r.GET("/stats/overview", ApiQuestionStats(svc))
	r.GET("/subjects", ApiAvailableSubjects())
	r.POST("/bulk-delete", ApiBulkDeleteQuestions(svc))
	r.GET("/:id", ApiGetQuestion(svc))
	r.PATCH("/:id/bookmark", ApiToggleBookmark(svc))
	r.DELETE("/:id", ApiDeleteQuestion(svc))
}
