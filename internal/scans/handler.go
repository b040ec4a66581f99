package scans

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"matchscore-backend/internal/documents"
	"matchscore-backend/internal/shared/server/middleware"
	"matchscore-backend/internal/shared/server/respond"
	"matchscore-backend/internal/usage"
)

// Handler wires HTTP handlers to the scans service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches scan routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/scans", h.startScan)
	rg.GET("/scans", h.listScans)
	rg.GET("/scans/:id", h.getScan)
	rg.POST("/scans/:id/recalibrate", h.recalibrateScan)
}

type startScanRequest struct {
	JobDescription string `json:"jobDescription"`
	Strategy       string `json:"strategy"`
}

func (h *Handler) startScan(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")
	if documentID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}
	c.Set("documentId", documentID)

	var req startScanRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	scan, err := h.Svc.Create(ctx, documentID, userID, req.JobDescription, req.Strategy)
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrInvalidStrategy):
			respond.Error(c, http.StatusBadRequest, "validation_error", "strategy must be composite or penalty", []map[string]string{
				{"field": "strategy", "issue": "invalid"},
			})
		case errors.Is(err, usage.ErrLimitReached):
			respond.Error(c, http.StatusTooManyRequests, "limit_reached", "You've reached your scan limit. Upgrade your plan to continue.", []map[string]string{
				{"field": "usage", "issue": "limit_reached"},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start scan", nil)
		}
		return
	}
	c.Set("scanId", scan.ID)

	respond.JSON(c, http.StatusAccepted, gin.H{
		"scanId":   scan.ID,
		"status":   scan.Status,
		"strategy": scan.Strategy,
	})
}

func (h *Handler) getScan(c *gin.Context) {
	scanID := c.Param("id")
	if scanID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "scan id is required", nil)
		return
	}
	c.Set("scanId", scanID)

	userID := middleware.UserIDFromContext(c)
	scan, err := h.Svc.Get(c.Request.Context(), scanID)
	if err == nil && scan.UserID != userID {
		err = ErrNotFound
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "scan not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch scan", nil)
		}
		return
	}
	c.Set("documentId", scan.DocumentID)

	resp := gin.H{
		"id":       scan.ID,
		"status":   scan.Status,
		"strategy": scan.Strategy,
	}
	if scan.Status == StatusCompleted && scan.Result != nil {
		resp["result"] = scan.Result
	}
	if scan.Status == StatusFailed {
		resp["errorCode"] = scan.ErrorCode
		resp["errorMessage"] = scan.ErrorMessage
	}

	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) recalibrateScan(c *gin.Context) {
	scanID := c.Param("id")
	if scanID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "scan id is required", nil)
		return
	}
	c.Set("scanId", scanID)

	userID := middleware.UserIDFromContext(c)
	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	scan, err := h.Svc.Recalibrate(ctx, scanID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "scan not found", nil)
		case errors.Is(err, ErrNotCompleted):
			respond.Error(c, http.StatusConflict, "not_completed", "scan has no completed result to recalibrate", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to recalibrate scan", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"id":       scan.ID,
		"status":   scan.Status,
		"strategy": StrategyPenalty,
		"result":   scan.Result,
	})
}

func (h *Handler) listScans(c *gin.Context) {
	if isGuest, ok := c.Get("isGuest"); ok {
		if guest, ok2 := isGuest.(bool); ok2 && guest {
			respond.Error(c, http.StatusUnauthorized, "login_required", "Login required to view history", nil)
			return
		}
	}

	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0

	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}

	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	scans, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list scans", nil)
		return
	}

	resp := make([]gin.H, 0, len(scans))
	for _, s := range scans {
		item := gin.H{
			"scanId":     s.ID,
			"documentId": s.DocumentID,
			"strategy":   s.Strategy,
			"status":     s.Status,
			"createdAt":  s.CreatedAt,
		}
		if s.Status == StatusCompleted && s.Result != nil {
			if report, ok := s.Result["report"].(map[string]any); ok {
				if score, ok := report["overallScore"]; ok {
					item["overallScore"] = score
				}
				if level, ok := report["matchLevel"]; ok {
					item["matchLevel"] = level
				}
			}
		}
		resp = append(resp, item)
	}

	respond.JSON(c, http.StatusOK, resp)
}
