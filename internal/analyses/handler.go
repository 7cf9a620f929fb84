package analyses

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/completeness"
	"recruit-backend/internal/shared/server/middleware"
	"recruit-backend/internal/shared/server/respond"
	"recruit-backend/internal/shared/util"
)

const maxRequestBytes = 1 << 20

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.createAnalysis)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.GET("/analyses/:id/export", h.exportAnalysis)
	rg.GET("/catalogs/:type", h.getCatalog)
}

func (h *Handler) createAnalysis(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRequestBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "failed to read request body", nil)
		return
	}
	if len(body) > maxRequestBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "request body too large", nil)
		return
	}
	req, err := DecodeRequest(body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	userID := middleware.UserIDFromContext(c)
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	switch mode := c.DefaultQuery("mode", "sync"); mode {
	case "sync":
		analysis, err := h.Svc.Analyze(ctx, userID, req)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.tag(c, analysis)
		respond.Created(c, analysis)
	case "async":
		analysis, err := h.Svc.Enqueue(ctx, userID, req)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.tag(c, analysis)
		respond.Accepted(c, gin.H{
			"analysisId": analysis.ID,
			"status":     analysis.Status,
		})
	default:
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "mode must be sync or async", []map[string]string{
			{"field": "mode", "issue": "unsupported"},
		})
	}
}

func (h *Handler) getAnalysis(c *gin.Context) {
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Get(ctx, middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.tag(c, analysis)
	respond.OK(c, analysis)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	filter := ListFilter{DocumentType: c.Query("type")}
	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "limit must be an integer", nil)
		return
	}
	if filter.Offset, err = intQuery(c, "offset"); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "offset must be an integer", nil)
		return
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	items, err := h.Svc.List(ctx, middleware.UserIDFromContext(c), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(items))
	for _, a := range items {
		item := gin.H{
			"analysisId":   a.ID,
			"documentId":   a.DocumentID,
			"documentType": a.DocumentType,
			"status":       a.Status,
			"createdAt":    a.CreatedAt,
		}
		if a.OverallScore != nil {
			item["overallScore"] = *a.OverallScore
		}
		resp = append(resp, item)
	}
	respond.OK(c, gin.H{"items": resp})
}

func (h *Handler) exportAnalysis(c *gin.Context) {
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, data, err := h.Svc.Export(ctx, middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.tag(c, analysis)

	name, err := util.SanitizeName(fmt.Sprintf("completeness-%s-%s.xlsx", analysis.DocumentType, analysis.ID))
	if err != nil {
		name = "completeness.xlsx"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, ExportContentType, data)
}

func (h *Handler) getCatalog(c *gin.Context) {
	docType, err := completeness.ParseDocumentType(c.Param("type"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeInvalidDocumentType, "document type must be cv or jd", nil)
		return
	}
	info, err := completeness.CatalogFor(docType)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load catalog", nil)
		return
	}
	respond.OK(c, info)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", verr.Details)
	case errors.Is(err, completeness.ErrInvalidDocumentType):
		respond.Error(c, http.StatusBadRequest, respond.CodeInvalidDocumentType, "unsupported document", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "analysis not found", nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, respond.CodeNotReady, "analysis is not completed yet", nil)
	case errors.Is(err, ErrQueueUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, respond.CodeQueueUnavailable, "analysis queue unavailable", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "internal error", nil)
	}
}

// tag exposes analysis fields to the request logger.
func (h *Handler) tag(c *gin.Context, a Analysis) {
	c.Set("analysisId", a.ID)
	c.Set("documentType", a.DocumentType)
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
