package bidding

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"helpmarket/internal/lifecycle"
	"helpmarket/internal/marketerrors"
	"helpmarket/internal/models"
	"helpmarket/internal/repository"
	"helpmarket/utils"
)

// BiddingService implements request posting and the bid/accept protocol
type BiddingService struct {
	repo   repository.MarketDB
	engine *lifecycle.Engine
	now    func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.MarketDB) *BiddingService {
	return &BiddingService{
		repo:   repo,
		engine: lifecycle.NewEngine(repo),
		now:    time.Now,
	}
}

// PostRequest validates a draft and stores it as a new open request owned by student
func (s *BiddingService) PostRequest(ctx context.Context, student models.Identity, draft models.RequestDraft) (models.Request, error) {
	now := s.now().UTC()

	deliveryTypes, err := validateDraft(student, draft, now)
	if err != nil {
		return models.Request{}, err
	}

	req := models.Request{
		RequestID:     utils.GenerateID(),
		Title:         strings.TrimSpace(draft.Title),
		Subject:       draft.Subject,
		Description:   strings.TrimSpace(draft.Description),
		DeliveryTypes: deliveryTypes,
		Deadline:      draft.Deadline.UTC(),
		Budget:        draft.Budget,
		Status:        models.StatusOpen,
		StudentID:     student.UserID,
		StudentName:   student.DisplayName,
		CreatedAt:     now,
	}

	if err := s.repo.InsertRequest(ctx, req); err != nil {
		return models.Request{}, fmt.Errorf("service: failed to store request for student %s: %w", student.UserID, err)
	}
	return req, nil
}

// validateDraft checks the posting form and returns the de-duplicated delivery types
func validateDraft(student models.Identity, draft models.RequestDraft, now time.Time) ([]models.DeliveryType, error) {
	if student.UserID == "" {
		return nil, fmt.Errorf("service: %w - missing student", marketerrors.ErrInvalidRequest)
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Description) == "" {
		return nil, fmt.Errorf("service: %w - title and description are required", marketerrors.ErrInvalidRequest)
	}
	if !models.ValidSubject(draft.Subject) {
		return nil, fmt.Errorf("service: %w - unknown subject %q", marketerrors.ErrInvalidRequest, draft.Subject)
	}
	if draft.Deadline.IsZero() || !draft.Deadline.After(now) {
		return nil, fmt.Errorf("service: %w - deadline must be in the future", marketerrors.ErrInvalidRequest)
	}
	if draft.Budget != nil && (math.IsNaN(*draft.Budget) || math.IsInf(*draft.Budget, 0) || *draft.Budget < 0) {
		return nil, fmt.Errorf("service: %w - negative budget", marketerrors.ErrInvalidRequest)
	}

	seen := make(map[models.DeliveryType]bool, len(draft.DeliveryTypes))
	types := make([]models.DeliveryType, 0, len(draft.DeliveryTypes))
	for _, dt := range draft.DeliveryTypes {
		if !models.ValidDeliveryType(dt) {
			return nil, fmt.Errorf("service: %w - unknown delivery type %q", marketerrors.ErrInvalidRequest, dt)
		}
		if !seen[dt] {
			seen[dt] = true
			types = append(types, dt)
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("service: %w - at least one delivery type is required", marketerrors.ErrInvalidRequest)
	}
	return types, nil
}

// SubmitBid validates and records a helper's bid on an open request
func (s *BiddingService) SubmitBid(ctx context.Context, requestID string, helper models.Identity, price float64, deliveryTime, message string) (models.Bid, error) {
	if err := validateBid(requestID, helper.UserID, price, deliveryTime, message); err != nil {
		return models.Bid{}, err
	}

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load request %s: %w", requestID, err)
	}
	if req.StudentID == helper.UserID {
		return models.Bid{}, fmt.Errorf("service: %w - user %s owns request %s", marketerrors.ErrSelfBidForbidden, helper.UserID, requestID)
	}
	if req.Status != models.StatusOpen {
		return models.Bid{}, fmt.Errorf("service: %w - request %s is %s", marketerrors.ErrRequestNotOpen, requestID, req.Status)
	}

	bid := models.Bid{
		BidID:        utils.GenerateID(),
		RequestID:    requestID,
		HelperID:     helper.UserID,
		HelperName:   helper.DisplayName,
		HelperRating: clampRating(helper.Rating),
		Price:        price,
		DeliveryTime: strings.TrimSpace(deliveryTime),
		Message:      strings.TrimSpace(message),
		CreatedAt:    s.now().UTC(),
	}

	// the store re-checks the status in case the request was accepted meanwhile
	if err := s.repo.InsertBid(ctx, bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for request %s by helper %s: %w", requestID, helper.UserID, err)
	}
	return bid, nil
}

// validateBid checks input validity for bidding
func validateBid(requestID, helperID string, price float64, deliveryTime, message string) error {
	if requestID == "" || helperID == "" {
		return fmt.Errorf("service: %w - missing requestID or helperID", marketerrors.ErrInvalidBid)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return fmt.Errorf("service: %w - negative bid price", marketerrors.ErrInvalidBid)
	}
	if strings.TrimSpace(deliveryTime) == "" || strings.TrimSpace(message) == "" {
		return fmt.Errorf("service: %w - delivery time and message are required", marketerrors.ErrInvalidBid)
	}
	return nil
}

func clampRating(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 5:
		return 5
	default:
		return r
	}
}

// AcceptBid lets the owning student accept one bid, opening a conversation with its helper
func (s *BiddingService) AcceptBid(ctx context.Context, requestID, bidID, actorID string) (models.Conversation, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("service: failed to load request %s: %w", requestID, err)
	}
	if actorID == "" || req.StudentID != actorID {
		return models.Conversation{}, fmt.Errorf("service: %w - only the owner can accept bids on %s", marketerrors.ErrForbidden, requestID)
	}
	if req.Status != models.StatusOpen {
		return models.Conversation{}, fmt.Errorf("service: %w - request %s is %s", marketerrors.ErrRequestNotOpen, requestID, req.Status)
	}

	bid, err := s.repo.GetBid(ctx, bidID)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("service: failed to load bid %s: %w", bidID, err)
	}
	if bid.RequestID != requestID {
		return models.Conversation{}, fmt.Errorf("service: %w - bid %s belongs to another request", marketerrors.ErrBidNotFound, bidID)
	}

	conv, err := s.engine.Accept(ctx, req, bid)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("service: %w", err)
	}
	return conv, nil
}

// CompleteRequest marks an in-progress request as completed on behalf of its owner
func (s *BiddingService) CompleteRequest(ctx context.Context, requestID, actorID string) (models.Request, error) {
	if requestID == "" {
		return models.Request{}, fmt.Errorf("service: %w - empty request ID", marketerrors.ErrRequestNotFound)
	}

	req, err := s.engine.CompleteRequest(ctx, requestID, actorID)
	if err != nil {
		return models.Request{}, fmt.Errorf("service: %w", err)
	}
	return req, nil
}
