package repository

import (
	"context"

	model "helpmarket/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// Predicates select entities in List calls. A nil predicate matches everything.
type (
	RequestPredicate      func(model.Request) bool
	BidPredicate          func(model.Bid) bool
	ConversationPredicate func(model.Conversation) bool
)

// RequestMutator edits a request in place. Returning an error aborts the
// update and leaves the stored request untouched.
type RequestMutator func(*model.Request) error

// MarketDB is the entity store for requests, bids, conversations and messages.
// List calls return entities in insertion order, messages in timestamp order.
type MarketDB interface {
	InsertRequest(ctx context.Context, req model.Request) error
	GetRequest(ctx context.Context, requestID string) (model.Request, error)
	ListRequests(ctx context.Context, match RequestPredicate) ([]model.Request, error)
	UpdateRequest(ctx context.Context, requestID string, mutate RequestMutator) (model.Request, error)

	// InsertBid stores a bid only while its request exists and is open.
	InsertBid(ctx context.Context, bid model.Bid) error
	GetBid(ctx context.Context, bidID string) (model.Bid, error)
	ListBids(ctx context.Context, match BidPredicate) ([]model.Bid, error)
	CountBids(ctx context.Context, requestID string) (int, error)

	// AcceptBid applies mutate to the request and stores conv as one unit.
	AcceptBid(ctx context.Context, requestID string, mutate RequestMutator, conv model.Conversation) (model.Request, error)
	GetConversation(ctx context.Context, conversationID string) (model.Conversation, error)
	ListConversations(ctx context.Context, match ConversationPredicate) ([]model.Conversation, error)

	InsertMessage(ctx context.Context, msg model.Message) error
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
}

func cloneRequest(r model.Request) model.Request {
	r.DeliveryTypes = append([]model.DeliveryType(nil), r.DeliveryTypes...)
	if r.Budget != nil {
		b := *r.Budget
		r.Budget = &b
	}
	return r
}
