package handlers

import (
	"net/http"
	"strings"

	"reviewdeck_backend/internal/middleware"
	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/internal/services"
	"reviewdeck_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

// RegisterRoutes mounts the review routes. The status route accepts
// both authenticated admins and anonymous client review links, so it
// carries optional auth only.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reviews := rg.Group("/reviews")
	reviews.Use(middleware.OptionalAuthMiddleware())
	{
		reviews.GET("/:reviewId", h.GetReview)
		reviews.PUT("/:reviewId/status", h.UpdateStatus)
	}

	projects := rg.Group("/projects")
	projects.Use(middleware.OptionalAuthMiddleware())
	{
		projects.GET("/:projectId/reviews", h.GetProjectReviews)
	}
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	db := h.GetDB(c)

	review, err := h.reviewService.GetReview(db, c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   review,
	})
}

func (h *ReviewHandler) GetProjectReviews(c *gin.Context) {
	db := h.GetDB(c)
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.GetProjectReviews(db, c.Param("projectId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   reviews,
	})
}

func (h *ReviewHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateReviewStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	review, err := h.reviewService.UpdateStatus(db, c.Param("reviewId"), req.Status, originFromRequest(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Review status updated successfully",
		"data":    review,
	})
}

// originFromRequest decides who is changing the status. An
// authenticated role claim wins; anonymous requests fall back to
// sniffing the user agent and path, which is how the admin dashboard
// identified itself before it got a login.
func originFromRequest(c *gin.Context) dto.Origin {
	if role := middleware.GetRole(c); role != "" {
		return dto.Origin{
			IsAdmin: role == string(models.UserRoleAdmin),
			Actor:   middleware.GetUserID(c),
		}
	}

	ua := strings.ToLower(c.Request.UserAgent())
	isAdmin := strings.Contains(ua, "admin") || strings.Contains(c.Request.URL.Path, "/admin/")
	return dto.Origin{IsAdmin: isAdmin}
}
