// Package lifecycle owns the request status machine:
//
//	open --accept bid--> in_progress --complete--> completed
//
// There is no way back to open and completed is terminal.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"helpmarket/internal/marketerrors"
	model "helpmarket/internal/models"
	"helpmarket/internal/repository"
	"helpmarket/utils"
)

var transitions = map[model.RequestStatus]model.RequestStatus{
	model.StatusOpen:       model.StatusInProgress,
	model.StatusInProgress: model.StatusCompleted,
}

// CanTransition reports whether a request may move from one status to another
func CanTransition(from, to model.RequestStatus) bool {
	next, ok := transitions[from]
	return ok && next == to
}

// Transition returns a mutator that moves a request from one status to
// another. If the stored status is not from, the mutator fails with
// mismatch so callers can tell a lost race from an illegal move.
func Transition(from, to model.RequestStatus, mismatch error) repository.RequestMutator {
	return func(req *model.Request) error {
		if !CanTransition(from, to) {
			return fmt.Errorf("%s -> %s: %w", from, to, marketerrors.ErrInvalidState)
		}
		if req.Status != from {
			return fmt.Errorf("request %s is %s: %w", req.RequestID, req.Status, mismatch)
		}
		req.Status = to
		return nil
	}
}

// Engine applies status transitions against the entity store
type Engine struct {
	repo repository.MarketDB
	now  func() time.Time
}

// NewEngine creates a lifecycle engine over repo
func NewEngine(repo repository.MarketDB) *Engine {
	return &Engine{repo: repo, now: time.Now}
}

// Accept moves req to in_progress and opens the conversation between its
// student and the bid's helper. Exactly one Accept per request can succeed;
// the others fail with ErrRequestNotOpen.
func (e *Engine) Accept(ctx context.Context, req model.Request, bid model.Bid) (model.Conversation, error) {
	conv := model.Conversation{
		ConversationID: utils.GenerateID(),
		RequestID:      req.RequestID,
		BidID:          bid.BidID,
		RequestTitle:   req.Title,
		StudentID:      req.StudentID,
		StudentName:    req.StudentName,
		HelperID:       bid.HelperID,
		HelperName:     bid.HelperName,
		CreatedAt:      e.now().UTC(),
	}

	mutate := Transition(model.StatusOpen, model.StatusInProgress, marketerrors.ErrRequestNotOpen)
	updated, err := e.repo.AcceptBid(ctx, req.RequestID, mutate, conv)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("lifecycle: accept bid %s on request %s: %w", bid.BidID, req.RequestID, err)
	}

	conv.Status = model.ConversationStatusFor(updated.Status)
	utils.Debug("request transitioned", map[string]any{
		"request_id": req.RequestID,
		"from":       model.StatusOpen,
		"to":         updated.Status,
	})
	return conv, nil
}

// CompleteRequest moves an in_progress request to completed. Only the owning
// student may do so.
func (e *Engine) CompleteRequest(ctx context.Context, requestID, actorID string) (model.Request, error) {
	advance := Transition(model.StatusInProgress, model.StatusCompleted, marketerrors.ErrInvalidState)
	mutate := func(req *model.Request) error {
		if actorID == "" || req.StudentID != actorID {
			return fmt.Errorf("complete request %s as %q: %w", req.RequestID, actorID, marketerrors.ErrForbidden)
		}
		return advance(req)
	}

	updated, err := e.repo.UpdateRequest(ctx, requestID, mutate)
	if err != nil {
		return model.Request{}, fmt.Errorf("lifecycle: complete request %s: %w", requestID, err)
	}

	utils.Debug("request transitioned", map[string]any{
		"request_id": requestID,
		"from":       model.StatusInProgress,
		"to":         updated.Status,
	})
	return updated, nil
}
