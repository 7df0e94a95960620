package creations

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
)

// Handler wires ledger HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches ledger routes to the authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/get-user-creations", h.listOwn)
	rg.GET("/get-publish-creations", h.listPublished)
	rg.POST("/toggle-like-creation", h.toggleLike)

	rg.GET("/code-fixes", h.listCodeFixes)
	rg.GET("/code-fixes/:id", h.getCodeFix)
	rg.DELETE("/code-fixes/:id", h.deleteCodeFix)
	rg.GET("/code-quality-stats", h.qualityStats)
	rg.GET("/recent-code-fixes", h.recentCodeFixes)
	rg.GET("/search-code-fixes", h.searchCodeFixes)
}

func (h *Handler) listOwn(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	rows, err := h.Svc.ListOwn(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, "Failed to fetch creations")
		return
	}
	respond.OK(c, gin.H{"creations": rows})
}

func (h *Handler) listPublished(c *gin.Context) {
	rows, err := h.Svc.ListPublished(c.Request.Context())
	if err != nil {
		respond.Fail(c, "Failed to fetch creations")
		return
	}
	respond.OK(c, gin.H{"creations": rows})
}

type toggleLikeRequest struct {
	ID string `json:"id"`
}

func (h *Handler) toggleLike(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req toggleLikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Fail(c, "Creation id is required")
		return
	}

	res, err := h.Svc.ToggleLike(c.Request.Context(), req.ID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(c, "Creation not found")
			return
		}
		respond.Fail(c, "Failed to toggle like")
		return
	}
	respond.OK(c, gin.H{
		"message":    res.Message,
		"liked":      res.Liked,
		"totalLikes": res.TotalLikes,
	})
}

func (h *Handler) listCodeFixes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	rows, err := h.Svc.CodeFixes(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, "Failed to fetch code fixes")
		return
	}
	if rows == nil {
		rows = []CodeFixDetail{}
	}
	respond.Data(c, rows)
}

func (h *Handler) getCodeFix(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	detail, err := h.Svc.CodeFix(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(c, "Code fix not found")
			return
		}
		respond.Fail(c, "Failed to fetch code fix")
		return
	}
	respond.Data(c, detail)
}

func (h *Handler) deleteCodeFix(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	err := h.Svc.DeleteCodeFix(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Fail(c, "Code fix not found or access denied")
			return
		}
		respond.Fail(c, "Failed to delete code fix")
		return
	}
	respond.OK(c, gin.H{"message": "Code fix deleted successfully"})
}

func (h *Handler) qualityStats(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	stats, err := h.Svc.QualityStats(c.Request.Context(), userID)
	if err != nil {
		respond.Fail(c, "Failed to fetch quality stats")
		return
	}
	respond.Data(c, stats)
}

func (h *Handler) recentCodeFixes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	rows, err := h.Svc.RecentCodeFixes(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Fail(c, "Failed to fetch recent code fixes")
		return
	}
	if rows == nil {
		rows = []CodeFixSummary{}
	}
	respond.Data(c, rows)
}

func (h *Handler) searchCodeFixes(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	filter := SearchFilter{
		Language: c.Query("language"),
		Search:   c.Query("search"),
	}
	if v := c.Query("minQuality"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.MinQuality = &parsed
		}
	}
	if v := c.Query("maxQuality"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.MaxQuality = &parsed
		}
	}

	rows, err := h.Svc.SearchCodeFixes(c.Request.Context(), userID, filter)
	if err != nil {
		respond.Fail(c, "Failed to search code fixes")
		return
	}
	if rows == nil {
		rows = []CodeFixSearchRow{}
	}
	respond.Data(c, rows)
}
