package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/epetitpas/aischool/internal/app/service/question"
	"github.com/epetitpas/aischool/internal/app/service/quota"
	"github.com/epetitpas/aischool/internal/app/service/revision"
	"github.com/epetitpas/aischool/internal/app/service/subscription"
)

func recordServiceError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	writeServiceError(c, err)
	return w
}

func TestWriteServiceError_QuotaExceededIs429(t *testing.T) {
	w := recordServiceError(t, &quota.ExceededError{Limit: 20})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "Upgrade your plan")
}

func TestWriteServiceError_NotFoundIs404(t *testing.T) {
	w := recordServiceError(t, question.ErrQuestionNotFound)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = recordServiceError(t, revision.ErrSheetNotFound)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteServiceError_BadRequestIs400(t *testing.T) {
	w := recordServiceError(t, fmt.Errorf("%w: [abc]", revision.ErrInvalidQuestionIDs))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = recordServiceError(t, subscription.ErrNoActiveSubscription)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteServiceError_UnknownErrorIsOpaque500(t *testing.T) {
	w := recordServiceError(t, errors.New("secret db detail"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "secret db detail")
}
