package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reviewdeck_backend/internal/services/dto"
	"reviewdeck_backend/internal/validator"
	"reviewdeck_backend/pkg/apperrors"
	"reviewdeck_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubReviewService struct {
	lastReviewID string
	lastStatus   string
	lastOrigin   dto.Origin
	response     *dto.ReviewResponse
	err          error
}

func (s *stubReviewService) GetReview(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	s.lastReviewID = reviewID
	return s.response, s.err
}

func (s *stubReviewService) GetProjectReviews(db *gorm.DB, projectID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	return &dto.ReviewListResponse{Page: page, PageSize: pageSize}, s.err
}

func (s *stubReviewService) UpdateStatus(db *gorm.DB, reviewID, status string, origin dto.Origin) (*dto.ReviewResponse, error) {
	s.lastReviewID = reviewID
	s.lastStatus = status
	s.lastOrigin = origin
	return s.response, s.err
}

func newTestRouter(svc *stubReviewService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Handlers only forward the handle to the service, so a bare value
	// stands in for the pool.
	router.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
		c.Next()
	})

	handler := NewReviewHandler(NewBaseHandler(validator.New()), svc)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestUpdateStatusRoute_Success(t *testing.T) {
	svc := &stubReviewService{
		response: &dto.ReviewResponse{ID: "r1", ProjectID: "p1", Status: "APPROVED"},
	}
	router := newTestRouter(svc)

	w, body := doRequest(t, router, "PUT", "/api/v1/reviews/r1/status", `{"status":"APPROVED"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Review status updated successfully", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "r1", data["id"])
	assert.Equal(t, "APPROVED", data["status"])

	assert.Equal(t, "r1", svc.lastReviewID)
	assert.Equal(t, "APPROVED", svc.lastStatus)
}

func TestUpdateStatusRoute_MissingBody(t *testing.T) {
	svc := &stubReviewService{}
	router := newTestRouter(svc)

	w, body := doRequest(t, router, "PUT", "/api/v1/reviews/r1/status", ``, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Empty(t, svc.lastStatus, "service must not be called on a malformed body")
}

func TestUpdateStatusRoute_ServiceNotFound(t *testing.T) {
	svc := &stubReviewService{err: apperrors.ErrReviewNotFound(nil)}
	router := newTestRouter(svc)

	w, body := doRequest(t, router, "PUT", "/api/v1/reviews/ghost/status", `{"status":"REJECTED"}`, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", body["status"])
}

func TestUpdateStatusRoute_AdminUserAgentSetsAdminOrigin(t *testing.T) {
	svc := &stubReviewService{response: &dto.ReviewResponse{ID: "r1", Status: "APPROVED"}}
	router := newTestRouter(svc)

	doRequest(t, router, "PUT", "/api/v1/reviews/r1/status", `{"status":"APPROVED"}`,
		map[string]string{"User-Agent": "ReviewDeck-Admin-Dashboard/1.0"})

	assert.True(t, svc.lastOrigin.IsAdmin)
}

func TestUpdateStatusRoute_PlainUserAgentIsClientOrigin(t *testing.T) {
	svc := &stubReviewService{response: &dto.ReviewResponse{ID: "r1", Status: "APPROVED"}}
	router := newTestRouter(svc)

	doRequest(t, router, "PUT", "/api/v1/reviews/r1/status", `{"status":"APPROVED"}`,
		map[string]string{"User-Agent": "Mozilla/5.0"})

	assert.False(t, svc.lastOrigin.IsAdmin)
}

func TestGetReviewRoute(t *testing.T) {
	svc := &stubReviewService{response: &dto.ReviewResponse{ID: "r1", Status: "PENDING"}}
	router := newTestRouter(svc)

	w, body := doRequest(t, router, "GET", "/api/v1/reviews/r1", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "r1", svc.lastReviewID)
}

func TestGetProjectReviewsRoute_PaginationDefaults(t *testing.T) {
	svc := &stubReviewService{}
	router := newTestRouter(svc)

	w, body := doRequest(t, router, "GET", "/api/v1/projects/p1/reviews?page=0&page_size=500", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["page"], "page below 1 falls back to the default")
	assert.Equal(t, float64(100), data["pageSize"], "page size is capped")
}
