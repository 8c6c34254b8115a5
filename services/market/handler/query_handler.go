package handler

import (
	"context"
	"net/http"
	"time"

	model "helpmarket/internal/models"
	query "helpmarket/internal/queryService"
	"helpmarket/services/market/helpers"
	"helpmarket/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=query_handler.go -destination=mock_query_handler.go -package=handler

type QueryServiceInterface interface {
	GetRequest(ctx context.Context, requestID string) (query.RequestSummary, error)
	Search(ctx context.Context, criteria query.Criteria) ([]query.RequestSummary, error)
	TimeRemaining(ctx context.Context, requestID string, now time.Time) (query.Remaining, error)
	BidsForRequest(ctx context.Context, requestID string) ([]model.Bid, error)
	RequestsByStudent(ctx context.Context, studentID string) (query.StudentRequests, error)
	DashboardStats(ctx context.Context) (query.DashboardStats, error)
}

type QueryHandler struct {
	service QueryServiceInterface
	now     func() time.Time
}

func NewQueryHandler(service QueryServiceInterface) *QueryHandler {
	return &QueryHandler{service: service, now: time.Now}
}

// SearchRequestsHandler handles GET /requests
func (h *QueryHandler) SearchRequestsHandler(c *gin.Context) {
	sortKey, err := query.ParseSortKey(c.Query("sort"))
	if err != nil {
		helpers.HandleServiceError(c, "SearchRequestsHandler", err, map[string]any{"sort": c.Query("sort")})
		return
	}

	criteria := query.Criteria{
		Text:         c.Query("q"),
		Subject:      model.Subject(c.Query("subject")),
		DeliveryType: model.DeliveryType(c.Query("delivery_type")),
		Status:       model.RequestStatus(c.Query("status")),
		Sort:         sortKey,
	}

	results, err := h.service.Search(c.Request.Context(), criteria)
	if err != nil {
		helpers.HandleServiceError(c, "SearchRequestsHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewRequestResponses(results, h.now()), "requests retrieved successfully")
	helpers.LogSuccess("SearchRequestsHandler", "requests retrieved successfully", map[string]any{
		"q":       criteria.Text,
		"subject": criteria.Subject,
		"count":   len(results),
	})
}

// GetRequestHandler handles GET /requests/:request_id
func (h *QueryHandler) GetRequestHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	sum, err := h.service.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		helpers.HandleServiceError(c, "GetRequestHandler", err, map[string]any{"request_id": requestID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewRequestResponse(sum, h.now()), "request retrieved successfully")
}

// GetTimeLeftHandler handles GET /requests/:request_id/time-left
func (h *QueryHandler) GetTimeLeftHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	remaining, err := h.service.TimeRemaining(c.Request.Context(), requestID, h.now())
	if err != nil {
		helpers.HandleServiceError(c, "GetTimeLeftHandler", err, map[string]any{"request_id": requestID})
		return
	}

	resp := helpers.TimeLeftResponse{
		RequestID: requestID,
		Seconds:   int64(remaining.Left / time.Second),
		Overdue:   remaining.Overdue,
		Label:     remaining.Label(),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "time left retrieved successfully")
}

// GetBidsForRequestHandler handles GET /requests/:request_id/bids
func (h *QueryHandler) GetBidsForRequestHandler(c *gin.Context) {
	requestID := c.Param("request_id")
	bids, err := h.service.BidsForRequest(c.Request.Context(), requestID)
	if err != nil {
		helpers.HandleServiceError(c, "GetBidsForRequestHandler", err, map[string]any{"request_id": requestID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsForRequestHandler", "bids retrieved successfully", map[string]any{
		"request_id": requestID,
		"count":      len(resp),
	})
}

// GetMyRequestsHandler handles GET /users/me/requests
func (h *QueryHandler) GetMyRequestsHandler(c *gin.Context) {
	student, ok := helpers.RequireIdentity(c, "GetMyRequestsHandler")
	if !ok {
		return
	}

	grouped, err := h.service.RequestsByStudent(c.Request.Context(), student.UserID)
	if err != nil {
		helpers.HandleServiceError(c, "GetMyRequestsHandler", err, map[string]any{"student_id": student.UserID})
		return
	}

	now := h.now()
	resp := helpers.StudentRequestsResponse{
		Open:       helpers.NewRequestResponses(grouped.Open, now),
		InProgress: helpers.NewRequestResponses(grouped.InProgress, now),
		Completed:  helpers.NewRequestResponses(grouped.Completed, now),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "requests retrieved successfully")
}

// GetStatsHandler handles GET /stats
func (h *QueryHandler) GetStatsHandler(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "GetStatsHandler", err, nil)
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats, "stats retrieved successfully")
}
