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

//go:generate mockgen -source=bidding_handler.go -destination=mock_bidding_handler.go -package=handler

type BiddingServiceInterface interface {
	PostRequest(ctx context.Context, student model.Identity, draft model.RequestDraft) (model.Request, error)
	SubmitBid(ctx context.Context, requestID string, helper model.Identity, price float64, deliveryTime, message string) (model.Bid, error)
	AcceptBid(ctx context.Context, requestID, bidID, actorID string) (model.Conversation, error)
	CompleteRequest(ctx context.Context, requestID, actorID string) (model.Request, error)
}

// RequestReader renders requests with their derived bid counts
type RequestReader interface {
	GetRequest(ctx context.Context, requestID string) (query.RequestSummary, error)
}

type BiddingHandler struct {
	service  BiddingServiceInterface
	requests RequestReader
	now      func() time.Time
}

func NewBiddingHandler(service BiddingServiceInterface, requests RequestReader) *BiddingHandler {
	return &BiddingHandler{service: service, requests: requests, now: time.Now}
}

// PostRequestHandler handles POST /requests
func (h *BiddingHandler) PostRequestHandler(c *gin.Context) {
	student, ok := helpers.RequireIdentity(c, "PostRequestHandler")
	if !ok {
		return
	}

	var req helpers.PostRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PostRequestHandler", err)
		return
	}

	created, err := h.service.PostRequest(c.Request.Context(), student, req.Draft())
	if err != nil {
		helpers.HandleServiceError(c, "PostRequestHandler", err, map[string]any{"student_id": student.UserID})
		return
	}

	resp := helpers.NewRequestResponse(query.RequestSummary{Request: created}, h.now())
	utils.JSONResponse(c, http.StatusCreated, resp, "request posted successfully")
	helpers.LogSuccess("PostRequestHandler", "request posted successfully", map[string]any{
		"request_id": created.RequestID,
		"student_id": student.UserID,
		"subject":    created.Subject,
	})
}

// SubmitBidHandler handles POST /requests/:request_id/bids
func (h *BiddingHandler) SubmitBidHandler(c *gin.Context) {
	helper, ok := helpers.RequireIdentity(c, "SubmitBidHandler")
	if !ok {
		return
	}

	var req helpers.SubmitBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitBidHandler", err)
		return
	}

	requestID := c.Param("request_id")
	bid, err := h.service.SubmitBid(c.Request.Context(), requestID, helper, *req.Price, req.DeliveryTime, req.Message)
	if err != nil {
		helpers.HandleServiceError(c, "SubmitBidHandler", err, map[string]any{
			"request_id": requestID,
			"helper_id":  helper.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid submitted successfully")
	helpers.LogSuccess("SubmitBidHandler", "bid submitted successfully", map[string]any{
		"bid_id":     bid.BidID,
		"request_id": bid.RequestID,
		"helper_id":  bid.HelperID,
		"price":      bid.Price,
	})
}

// AcceptBidHandler handles POST /requests/:request_id/bids/:bid_id/accept
func (h *BiddingHandler) AcceptBidHandler(c *gin.Context) {
	student, ok := helpers.RequireIdentity(c, "AcceptBidHandler")
	if !ok {
		return
	}

	requestID, bidID := c.Param("request_id"), c.Param("bid_id")
	conv, err := h.service.AcceptBid(c.Request.Context(), requestID, bidID, student.UserID)
	if err != nil {
		helpers.HandleServiceError(c, "AcceptBidHandler", err, map[string]any{
			"request_id": requestID,
			"bid_id":     bidID,
			"actor_id":   student.UserID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, conv, "bid accepted")
	helpers.LogSuccess("AcceptBidHandler", "bid accepted", map[string]any{
		"request_id":      requestID,
		"bid_id":          bidID,
		"conversation_id": conv.ConversationID,
		"helper_id":       conv.HelperID,
	})
}

// CompleteRequestHandler handles POST /requests/:request_id/complete
func (h *BiddingHandler) CompleteRequestHandler(c *gin.Context) {
	student, ok := helpers.RequireIdentity(c, "CompleteRequestHandler")
	if !ok {
		return
	}

	requestID := c.Param("request_id")
	req, err := h.service.CompleteRequest(c.Request.Context(), requestID, student.UserID)
	if err != nil {
		helpers.HandleServiceError(c, "CompleteRequestHandler", err, map[string]any{
			"request_id": requestID,
			"actor_id":   student.UserID,
		})
		return
	}

	sum, err := h.requests.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		// the request is already completed, only its bid count is missing
		utils.Warn("failed to load bid count for completed request", map[string]any{
			"handler":    "CompleteRequestHandler",
			"request_id": requestID,
			"error":      err.Error(),
		})
		sum = query.RequestSummary{Request: req}
	}

	resp := helpers.NewRequestResponse(sum, h.now())
	utils.JSONResponse(c, http.StatusOK, resp, "request completed")
	helpers.LogSuccess("CompleteRequestHandler", "request completed", map[string]any{"request_id": requestID})
}
