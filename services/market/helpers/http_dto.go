package helpers

import (
	"time"

	"helpmarket/internal/models"
	query "helpmarket/internal/queryService"
)

// Request/Response DTOs
type SignInRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	DisplayName string  `json:"display_name" binding:"required"`
	Rating      float64 `json:"rating" binding:"gte=0,lte=5"`
}

type SessionResponse struct {
	Token    string          `json:"token"`
	Identity models.Identity `json:"identity"`
}

type PostRequestRequest struct {
	Title         string    `json:"title" binding:"required"`
	Subject       string    `json:"subject" binding:"required"`
	Description   string    `json:"description" binding:"required"`
	DeliveryTypes []string  `json:"delivery_types" binding:"required,min=1"`
	Deadline      time.Time `json:"deadline" binding:"required"`
	Budget        *float64  `json:"budget" binding:"omitempty,gte=0"`
}

// Draft converts the payload into the domain draft
func (r PostRequestRequest) Draft() models.RequestDraft {
	types := make([]models.DeliveryType, 0, len(r.DeliveryTypes))
	for _, t := range r.DeliveryTypes {
		types = append(types, models.DeliveryType(t))
	}
	return models.RequestDraft{
		Title:         r.Title,
		Subject:       models.Subject(r.Subject),
		Description:   r.Description,
		DeliveryTypes: types,
		Deadline:      r.Deadline,
		Budget:        r.Budget,
	}
}

type SubmitBidRequest struct {
	Price        *float64 `json:"price" binding:"required,gte=0"`
	DeliveryTime string   `json:"delivery_time" binding:"required"`
	Message      string   `json:"message" binding:"required"`
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type RequestResponse struct {
	RequestID     string   `json:"request_id"`
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	Description   string   `json:"description"`
	DeliveryTypes []string `json:"delivery_types"`
	Deadline      string   `json:"deadline"`
	Budget        *float64 `json:"budget,omitempty"`
	Status        string   `json:"status"`
	StudentID     string   `json:"student_id"`
	StudentName   string   `json:"student_name"`
	BidCount      int      `json:"bid_count"`
	TimeLeft      string   `json:"time_left"`
	CreatedAt     string   `json:"created_at"`
}

type BidResponse struct {
	BidID        string  `json:"bid_id"`
	RequestID    string  `json:"request_id"`
	HelperID     string  `json:"helper_id"`
	HelperName   string  `json:"helper_name"`
	HelperRating float64 `json:"helper_rating"`
	Price        float64 `json:"price"`
	DeliveryTime string  `json:"delivery_time"`
	Message      string  `json:"message"`
	CreatedAt    string  `json:"created_at"`
}

type TimeLeftResponse struct {
	RequestID string `json:"request_id"`
	Seconds   int64  `json:"seconds"`
	Overdue   bool   `json:"overdue"`
	Label     string `json:"label"`
}

type StudentRequestsResponse struct {
	Open       []RequestResponse `json:"open"`
	InProgress []RequestResponse `json:"in_progress"`
	Completed  []RequestResponse `json:"completed"`
}

// NewRequestResponse renders a request summary, computing the time left at now
func NewRequestResponse(sum query.RequestSummary, now time.Time) RequestResponse {
	types := make([]string, 0, len(sum.DeliveryTypes))
	for _, t := range sum.DeliveryTypes {
		types = append(types, string(t))
	}
	return RequestResponse{
		RequestID:     sum.RequestID,
		Title:         sum.Title,
		Subject:       string(sum.Subject),
		Description:   sum.Description,
		DeliveryTypes: types,
		Deadline:      sum.Deadline.UTC().Format(time.RFC3339),
		Budget:        sum.Budget,
		Status:        string(sum.Status),
		StudentID:     sum.StudentID,
		StudentName:   sum.StudentName,
		BidCount:      sum.BidCount,
		TimeLeft:      query.Until(sum.Deadline, now).Label(),
		CreatedAt:     sum.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewRequestResponses renders a list of summaries, never returning nil
func NewRequestResponses(list []query.RequestSummary, now time.Time) []RequestResponse {
	out := make([]RequestResponse, 0, len(list))
	for _, sum := range list {
		out = append(out, NewRequestResponse(sum, now))
	}
	return out
}

// NewBidResponse renders a bid
func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:        bid.BidID,
		RequestID:    bid.RequestID,
		HelperID:     bid.HelperID,
		HelperName:   bid.HelperName,
		HelperRating: bid.HelperRating,
		Price:        bid.Price,
		DeliveryTime: bid.DeliveryTime,
		Message:      bid.Message,
		CreatedAt:    bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}
