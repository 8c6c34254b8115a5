package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"helpmarket/internal/marketerrors"
	model "helpmarket/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of MarketDB.
// A single write lock makes every mutation atomic with respect to the others.
type MemoryRepo struct {
	mu sync.RWMutex

	requests     map[string]model.Request // key: requestID
	requestOrder []string

	bids          map[string]model.Bid // key: bidID
	bidOrder      []string
	bidsByRequest map[string]int // key: requestID -> value: bid count

	conversations     map[string]model.Conversation // key: conversationID
	conversationOrder []string
	convByRequest     map[string]string // key: requestID -> value: conversationID

	messages   map[string][]model.Message // key: conversationID -> value: messages in timestamp order
	messageIDs map[string]struct{}
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		requests:      make(map[string]model.Request),
		bids:          make(map[string]model.Bid),
		bidsByRequest: make(map[string]int),
		conversations: make(map[string]model.Conversation),
		convByRequest: make(map[string]string),
		messages:      make(map[string][]model.Message),
		messageIDs:    make(map[string]struct{}),
	}
}

// InsertRequest stores a new request
func (r *MemoryRepo) InsertRequest(_ context.Context, req model.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[req.RequestID]; ok {
		return fmt.Errorf("insert request %s: %w", req.RequestID, marketerrors.ErrDuplicateID)
	}
	r.requests[req.RequestID] = cloneRequest(req)
	r.requestOrder = append(r.requestOrder, req.RequestID)
	return nil
}

// GetRequest returns a request by id
func (r *MemoryRepo) GetRequest(_ context.Context, requestID string) (model.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[requestID]
	if !ok {
		return model.Request{}, fmt.Errorf("get request %s: %w", requestID, marketerrors.ErrRequestNotFound)
	}
	return cloneRequest(req), nil
}

// ListRequests returns matching requests in insertion order
func (r *MemoryRepo) ListRequests(_ context.Context, match RequestPredicate) ([]model.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Request, 0, len(r.requestOrder))
	for _, id := range r.requestOrder {
		req := cloneRequest(r.requests[id])
		if match == nil || match(req) {
			out = append(out, req)
		}
	}
	return out, nil
}

// UpdateRequest applies mutate to a copy of the request and stores it on success
func (r *MemoryRepo) UpdateRequest(_ context.Context, requestID string, mutate RequestMutator) (model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateRequestLocked(requestID, mutate)
}

func (r *MemoryRepo) updateRequestLocked(requestID string, mutate RequestMutator) (model.Request, error) {
	current, ok := r.requests[requestID]
	if !ok {
		return model.Request{}, fmt.Errorf("update request %s: %w", requestID, marketerrors.ErrRequestNotFound)
	}

	next := cloneRequest(current)
	if err := mutate(&next); err != nil {
		return model.Request{}, err
	}
	// identity and ownership never change
	next.RequestID = current.RequestID
	next.StudentID = current.StudentID

	r.requests[requestID] = next
	return cloneRequest(next), nil
}

// InsertBid records a bid for an open request
func (r *MemoryRepo) InsertBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[bid.RequestID]
	if !ok {
		return fmt.Errorf("insert bid for request %s: %w", bid.RequestID, marketerrors.ErrRequestNotFound)
	}
	if req.Status != model.StatusOpen {
		return fmt.Errorf("insert bid for request %s: %w", bid.RequestID, marketerrors.ErrRequestNotOpen)
	}
	if _, ok := r.bids[bid.BidID]; ok {
		return fmt.Errorf("insert bid %s: %w", bid.BidID, marketerrors.ErrDuplicateID)
	}

	r.bids[bid.BidID] = bid
	r.bidOrder = append(r.bidOrder, bid.BidID)
	r.bidsByRequest[bid.RequestID]++
	return nil
}

// GetBid returns a bid by id
func (r *MemoryRepo) GetBid(_ context.Context, bidID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, marketerrors.ErrBidNotFound)
	}
	return bid, nil
}

// ListBids returns matching bids in insertion order
func (r *MemoryRepo) ListBids(_ context.Context, match BidPredicate) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Bid, 0, len(r.bidOrder))
	for _, id := range r.bidOrder {
		bid := r.bids[id]
		if match == nil || match(bid) {
			out = append(out, bid)
		}
	}
	return out, nil
}

// CountBids returns the number of bids placed on a request
func (r *MemoryRepo) CountBids(_ context.Context, requestID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.requests[requestID]; !ok {
		return 0, fmt.Errorf("count bids for request %s: %w", requestID, marketerrors.ErrRequestNotFound)
	}
	return r.bidsByRequest[requestID], nil
}

// AcceptBid mutates the request and opens its conversation under one lock
func (r *MemoryRepo) AcceptBid(_ context.Context, requestID string, mutate RequestMutator, conv model.Conversation) (model.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[conv.ConversationID]; ok {
		return model.Request{}, fmt.Errorf("insert conversation %s: %w", conv.ConversationID, marketerrors.ErrDuplicateID)
	}
	if existing, ok := r.convByRequest[requestID]; ok {
		return model.Request{}, fmt.Errorf("request %s already has conversation %s: %w", requestID, existing, marketerrors.ErrRequestNotOpen)
	}

	updated, err := r.updateRequestLocked(requestID, mutate)
	if err != nil {
		return model.Request{}, err
	}

	conv.RequestID = requestID
	r.conversations[conv.ConversationID] = conv
	r.conversationOrder = append(r.conversationOrder, conv.ConversationID)
	r.convByRequest[requestID] = conv.ConversationID
	return updated, nil
}

// GetConversation returns a conversation by id
func (r *MemoryRepo) GetConversation(_ context.Context, conversationID string) (model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[conversationID]
	if !ok {
		return model.Conversation{}, fmt.Errorf("get conversation %s: %w", conversationID, marketerrors.ErrConversationNotFound)
	}
	return conv, nil
}

// ListConversations returns matching conversations in creation order
func (r *MemoryRepo) ListConversations(_ context.Context, match ConversationPredicate) ([]model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Conversation, 0, len(r.conversationOrder))
	for _, id := range r.conversationOrder {
		conv := r.conversations[id]
		if match == nil || match(conv) {
			out = append(out, conv)
		}
	}
	return out, nil
}

// InsertMessage appends a message, keeping the thread ordered by timestamp
func (r *MemoryRepo) InsertMessage(_ context.Context, msg model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[msg.ConversationID]; !ok {
		return fmt.Errorf("insert message into %s: %w", msg.ConversationID, marketerrors.ErrConversationNotFound)
	}
	if _, ok := r.messageIDs[msg.MessageID]; ok {
		return fmt.Errorf("insert message %s: %w", msg.MessageID, marketerrors.ErrDuplicateID)
	}

	thread := r.messages[msg.ConversationID]
	// equal timestamps keep arrival order
	i := sort.Search(len(thread), func(i int) bool { return thread[i].CreatedAt.After(msg.CreatedAt) })
	thread = append(thread, model.Message{})
	copy(thread[i+1:], thread[i:])
	thread[i] = msg

	r.messages[msg.ConversationID] = thread
	r.messageIDs[msg.MessageID] = struct{}{}
	return nil
}

// ListMessages returns a conversation's messages in timestamp order
func (r *MemoryRepo) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.conversations[conversationID]; !ok {
		return nil, fmt.Errorf("list messages of %s: %w", conversationID, marketerrors.ErrConversationNotFound)
	}
	return append([]model.Message{}, r.messages[conversationID]...), nil
}
