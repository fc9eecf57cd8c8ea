package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/epetitpas/aischool/internal/app/service/plan"
	"github.com/epetitpas/aischool/internal/app/service/question"
	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/app/service/revision"
	"github.com/epetitpas/aischool/internal/app/service/subscription"
	"github.com/epetitpas/aischool/internal/app/service/user"
	"github.com/epetitpas/aischool/pkg/response"
)

// writeServiceError maps service errors to the envelope and HTTP status.
// Quota exhaustion surfaces as 429 with the limit in the message so clients
// can render upgrade prompts; unexpected errors become an opaque 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quota.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests,
			response.ErrorMsg(response.APIResponseCodeQuotaExceeded, err.Error()))
	case errors.Is(err, question.ErrQuestionNotFound),
		errors.Is(err, revision.ErrSheetNotFound),
		errors.Is(err, plan.ErrPlanNotFound),
		errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound,
			response.ErrorMsg(response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, revision.ErrInvalidQuestionIDs),
		errors.Is(err, revision.ErrNoQuestionsFound),
		errors.Is(err, subscription.ErrNoActiveSubscription):
		c.JSON(http.StatusBadRequest,
			response.ErrorMsg(response.APIResponseCodeBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError,
			response.ErrorT[any](response.APIResponseCodeError, nil))
	}
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest,
		response.ErrorMsg(response.APIResponseCodeBadRequest, err.Error()))
}
