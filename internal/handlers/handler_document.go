package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/brgyhub/barangay_records_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// documentHandler handles HTTP requests for issued documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

// newDocumentHandler creates a new documentHandler.
func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{
		documentService: ds,
	}
}

// registerDocumentRoutes registers routes related to issued documents.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.issueDocument)
		documents.GET("/expiring", h.listExpiringDocuments)
		documents.GET("/:id", h.getDocument)
		documents.GET("/:id/status", h.getDocumentStatus)
		documents.POST("/:id/invalidate", h.invalidateDocument)
		documents.POST("/:id/regenerate", h.regenerateDocument)
		documents.POST("/:id/resign", h.reSignDocument)
	}

	rg.GET("/residents/:id/documents", h.listResidentDocuments)
}

// issueDocument godoc
// @Summary Issue a document from an approved request
// @Description Allocates the next document number for the type and year and persists the issued document atomically
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   issuance body dto.IssueDocumentRequest true "Issuance details"
// @Success 201 {object} domain.IssuedDocument
// @Failure 400 {object} map[string]string "Invalid validity window or signer details"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request not approved or already has a document"
// @Failure 503 {object} map[string]string "Document numbering contention"
// @Router /documents [post]
func (h *documentHandler) issueDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.IssueDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IssueDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("actor_user_id", actorUserID), slog.String("request_id", req.RequestID))
	logger.Info("Received request to issue document")

	document, err := h.documentService.IssueDocument(c.Request.Context(), req, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to issue document")
		return
	}

	logger.Info("Document issued successfully", slog.String("document_number", document.DocumentNumber))
	c.JSON(http.StatusCreated, document)
}

// getDocument godoc
// @Summary Get an issued document by ID
// @Description Retrieves an issued document with its derived display status
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} domain.IssuedDocument
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to retrieve document"
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	logger = logger.With(slog.String("document_id", documentID))

	document, err := h.documentService.GetDocumentByID(c.Request.Context(), documentID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve document")
		return
	}

	c.JSON(http.StatusOK, document)
}

// getDocumentStatus godoc
// @Summary Get the derived status of a document
// @Description Computes VALID, EXPIRED or INVALID as of now, or as of the asOf query instant
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   asOf query string false "Evaluation instant (RFC 3339)"
// @Success 200 {object} dto.DocumentStatusResponse
// @Failure 400 {object} map[string]string "Invalid asOf instant"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to compute document status"
// @Router /documents/{id}/status [get]
func (h *documentHandler) getDocumentStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	var asOf *time.Time
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := time.Parse(time.RFC3339, asOfStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf instant, expected RFC 3339: " + asOfStr})
			return
		}
		asOf = &parsed
	}

	logger = logger.With(slog.String("document_id", documentID))

	status, err := h.documentService.GetDocumentStatus(c.Request.Context(), documentID, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute document status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// listResidentDocuments godoc
// @Summary List documents issued to a resident
// @Description Retrieves a paginated list of a resident's issued documents, newest first
// @Tags documents
// @Produce  json
// @Param   id path string true "Resident ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid pagination parameters"
// @Failure 500 {object} map[string]string "Failed to list documents"
// @Router /residents/{id}/documents [get]
func (h *documentHandler) listResidentDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	residentID := c.Param("id")

	params := dto.ListDocumentsParams{Limit: 20}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	logger = logger.With(slog.String("resident_id", residentID))

	resp, err := h.documentService.ListDocumentsByResident(c.Request.Context(), residentID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list documents")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listExpiringDocuments godoc
// @Summary List documents expiring soon
// @Description Retrieves still-valid documents whose validity window ends within the given number of days
// @Tags documents
// @Produce  json
// @Param   days query int false "Look-ahead window in days (default 30)"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid days parameter"
// @Failure 500 {object} map[string]string "Failed to list expiring documents"
// @Router /documents/expiring [get]
func (h *documentHandler) listExpiringDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	days := 30
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	resp, err := h.documentService.ListExpiringDocuments(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list expiring documents")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// invalidateDocument godoc
// @Summary Invalidate an issued document
// @Description Irreversibly marks a document as no longer honorable; repeating the call is a no-op
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} domain.IssuedDocument
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to invalidate document"
// @Router /documents/{id}/invalidate [post]
func (h *documentHandler) invalidateDocument(c *gin.Context) {
	h.mutate(c, "invalidate", func(c *gin.Context, documentID string, actorUserID string) (any, error) {
		return h.documentService.InvalidateDocument(c.Request.Context(), documentID, actorUserID)
	})
}

// regenerateDocument godoc
// @Summary Regenerate the printable artifact of a document
// @Description Re-renders the PDF from the document's stored fields; number and validity window are unchanged
// @Tags documents
// @Produce  json
// @Param   id path string true "Document ID"
// @Success 200 {object} domain.IssuedDocument
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to regenerate document"
// @Router /documents/{id}/regenerate [post]
func (h *documentHandler) regenerateDocument(c *gin.Context) {
	h.mutate(c, "regenerate", func(c *gin.Context, documentID string, actorUserID string) (any, error) {
		return h.documentService.RegenerateDocument(c.Request.Context(), documentID, actorUserID)
	})
}

// reSignDocument godoc
// @Summary Refresh the signer of an issued document
// @Description Updates signer name and title, e.g. after a change of barangay captain; the document number is unchanged
// @Tags documents
// @Accept  json
// @Produce  json
// @Param   id path string true "Document ID"
// @Param   signer body dto.ReSignRequest true "New signer details"
// @Success 200 {object} domain.IssuedDocument
// @Failure 400 {object} map[string]string "Missing signer details"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 500 {object} map[string]string "Failed to re-sign document"
// @Router /documents/{id}/resign [post]
func (h *documentHandler) reSignDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	var req dto.ReSignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReSignDocument", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signer details are required: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("document_id", documentID), slog.String("actor_user_id", actorUserID))
	logger.Info("Received request to re-sign document")

	document, err := h.documentService.ReSignDocument(c.Request.Context(), documentID, req, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to re-sign document")
		return
	}

	logger.Info("Document re-signed")
	c.JSON(http.StatusOK, document)
}

// mutate handles the shared auth/respond shape of invalidate and regenerate.
func (h *documentHandler) mutate(c *gin.Context, action string, fn func(*gin.Context, string, string) (any, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("id")

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("document_id", documentID), slog.String("actor_user_id", actorUserID))
	logger.Info("Received document mutation", slog.String("action", action))

	document, err := fn(c, documentID, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to "+action+" document")
		return
	}

	logger.Info("Document mutation applied", slog.String("action", action))
	c.JSON(http.StatusOK, document)
}
