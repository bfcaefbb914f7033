package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/brgyhub/barangay_records_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// requestHandler handles HTTP requests for the issuance request workflow.
type requestHandler struct {
	requestService portssvc.RequestSvcFacade
}

// newRequestHandler creates a new requestHandler.
func newRequestHandler(rs portssvc.RequestSvcFacade) *requestHandler {
	return &requestHandler{
		requestService: rs,
	}
}

// registerRequestRoutes registers routes related to issuance requests.
func registerRequestRoutes(rg *gin.RouterGroup, requestService portssvc.RequestSvcFacade) {
	h := newRequestHandler(requestService)

	requests := rg.Group("/requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listRequests)
		requests.GET("/:id", h.getRequest)
		requests.POST("/:id/approve", h.approveRequest)
		requests.POST("/:id/reject", h.rejectRequest)
		requests.POST("/:id/release", h.releaseRequest)
	}
}

// createRequest godoc
// @Summary File a new issuance request
// @Description Files a new document issuance request for a resident, starting in PENDING
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateRequestRequest true "Request details"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Resident not found"
// @Failure 500 {object} map[string]string "Failed to create request"
// @Router /requests [post]
func (h *requestHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to file issuance request",
		slog.String("resident_id", req.ResidentID),
		slog.String("document_type", string(req.DocumentType)))

	newRequest, err := h.requestService.CreateRequest(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create request")
		return
	}

	logger.Info("Issuance request filed successfully", slog.String("request_id", newRequest.RequestID))
	c.JSON(http.StatusCreated, dto.ToRequestResponse(newRequest))
}

// getRequest godoc
// @Summary Get an issuance request by ID
// @Description Retrieves details for a specific issuance request
// @Tags requests
// @Produce  json
// @Param   id path string true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 500 {object} map[string]string "Failed to retrieve request"
// @Router /requests/{id} [get]
func (h *requestHandler) getRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	logger = logger.With(slog.String("request_id", requestID))

	request, err := h.requestService.GetRequestByID(c.Request.Context(), requestID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve request")
		return
	}

	c.JSON(http.StatusOK, dto.ToRequestResponse(request))
}

// listRequests godoc
// @Summary List issuance requests
// @Description Retrieves a paginated list of issuance requests, newest first, optionally filtered by status
// @Tags requests
// @Produce  json
// @Param   status query string false "Filter by status (PENDING, APPROVED, RELEASED, REJECTED)"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListRequestsResponse
// @Failure 400 {object} map[string]string "Invalid status or pagination token"
// @Failure 500 {object} map[string]string "Failed to list requests"
// @Router /requests [get]
func (h *requestHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	params := dto.ListRequestsParams{Limit: 20}
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
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.RequestStatus(statusStr)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter: " + statusStr})
			return
		}
		params.Status = &status
	}

	resp, err := h.requestService.ListRequests(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list requests")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// approveRequest godoc
// @Summary Approve an issuance request
// @Description Moves a PENDING request to APPROVED
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   decision body dto.DecisionRequest false "Optional remarks"
// @Success 200 {object} dto.RequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is not pending"
// @Failure 500 {object} map[string]string "Failed to approve request"
// @Router /requests/{id}/approve [post]
func (h *requestHandler) approveRequest(c *gin.Context) {
	h.decide(c, "approve", func(c *gin.Context, requestID string, remarks *string, actorUserID string) (*domain.IssuanceRequest, error) {
		return h.requestService.ApproveRequest(c.Request.Context(), requestID, remarks, actorUserID)
	})
}

// releaseRequest godoc
// @Summary Release an approved request
// @Description Moves an APPROVED request to RELEASED, recording physical hand-over
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   decision body dto.DecisionRequest false "Optional remarks"
// @Success 200 {object} dto.RequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request is not approved"
// @Failure 500 {object} map[string]string "Failed to release request"
// @Router /requests/{id}/release [post]
func (h *requestHandler) releaseRequest(c *gin.Context) {
	h.decide(c, "release", func(c *gin.Context, requestID string, remarks *string, actorUserID string) (*domain.IssuanceRequest, error) {
		return h.requestService.ReleaseRequest(c.Request.Context(), requestID, remarks, actorUserID)
	})
}

// decide handles the shared bind/auth/respond shape of approve and release.
func (h *requestHandler) decide(c *gin.Context, action string, fn func(*gin.Context, string, *string, string) (*domain.IssuanceRequest, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for decision", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("actor_user_id", actorUserID))
	logger.Info("Received decision on issuance request", slog.String("action", action))

	updated, err := fn(c, requestID, req.Remarks, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to "+action+" request")
		return
	}

	logger.Info("Decision applied", slog.String("action", action), slog.String("status", string(updated.Status)))
	c.JSON(http.StatusOK, dto.ToRequestResponse(updated))
}

// rejectRequest godoc
// @Summary Reject an issuance request
// @Description Moves a PENDING or APPROVED request to REJECTED; remarks are mandatory
// @Tags requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Request ID"
// @Param   rejection body dto.RejectRequestRequest true "Mandatory remarks"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} map[string]string "Missing remarks"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already finalized"
// @Failure 500 {object} map[string]string "Failed to reject request"
// @Router /requests/{id}/reject [post]
func (h *requestHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestID := c.Param("id")

	var req dto.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection remarks are required: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("actor_user_id", actorUserID))
	logger.Info("Received request to reject issuance request")

	updated, err := h.requestService.RejectRequest(c.Request.Context(), requestID, req.Remarks, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject request")
		return
	}

	logger.Info("Issuance request rejected")
	c.JSON(http.StatusOK, dto.ToRequestResponse(updated))
}

// respondServiceError translates service-layer errors into HTTP responses.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAllocationConflict):
		// Retries are already exhausted inside the service by this point.
		logger.Error("Sequence allocation contention", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Document numbering is busy, please retry"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflicting state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
