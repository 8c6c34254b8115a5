package repository

import (
	"context"
	"errors"
	"fmt"

	"helpmarket/internal/marketerrors"
	model "helpmarket/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const requestColumns = `id, title, subject, description, delivery_types, deadline, budget, status, student_id, student_name, created_at`
const bidColumns = `id, request_id, helper_id, helper_name, helper_rating, price, delivery_time, message, created_at`
const conversationColumns = `id, request_id, bid_id, request_title, student_id, student_name, helper_id, helper_name, created_at`

// PostgresRepo is a MarketDB backed by PostgreSQL. Status changes are
// conditional updates on the status column, run in the same transaction
// as their side effects.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo creates a new PostgresRepo on top of an open pool
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func ioError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, marketerrors.ErrDuplicateID)
	}
	return fmt.Errorf("%s: %w: %w", op, marketerrors.ErrIO, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (model.Request, error) {
	var req model.Request
	var deliveryTypes []string
	err := row.Scan(
		&req.RequestID,
		&req.Title,
		&req.Subject,
		&req.Description,
		&deliveryTypes,
		&req.Deadline,
		&req.Budget,
		&req.Status,
		&req.StudentID,
		&req.StudentName,
		&req.CreatedAt,
	)
	if err != nil {
		return model.Request{}, err
	}
	req.DeliveryTypes = make([]model.DeliveryType, 0, len(deliveryTypes))
	for _, dt := range deliveryTypes {
		req.DeliveryTypes = append(req.DeliveryTypes, model.DeliveryType(dt))
	}
	return req, nil
}

func scanBid(row rowScanner) (model.Bid, error) {
	var bid model.Bid
	err := row.Scan(
		&bid.BidID,
		&bid.RequestID,
		&bid.HelperID,
		&bid.HelperName,
		&bid.HelperRating,
		&bid.Price,
		&bid.DeliveryTime,
		&bid.Message,
		&bid.CreatedAt,
	)
	return bid, err
}

func scanConversation(row rowScanner) (model.Conversation, error) {
	var conv model.Conversation
	err := row.Scan(
		&conv.ConversationID,
		&conv.RequestID,
		&conv.BidID,
		&conv.RequestTitle,
		&conv.StudentID,
		&conv.StudentName,
		&conv.HelperID,
		&conv.HelperName,
		&conv.CreatedAt,
	)
	return conv, err
}

func deliveryStrings(types []model.DeliveryType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

// InsertRequest stores a new request
func (r *PostgresRepo) InsertRequest(ctx context.Context, req model.Request) error {
	query := `INSERT INTO requests (` + requestColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.pool.Exec(
		ctx,
		query,
		req.RequestID,
		req.Title,
		req.Subject,
		req.Description,
		deliveryStrings(req.DeliveryTypes),
		req.Deadline,
		req.Budget,
		req.Status,
		req.StudentID,
		req.StudentName,
		req.CreatedAt)
	if err != nil {
		return ioError("insert request "+req.RequestID, err)
	}
	return nil
}

// GetRequest returns a request by id
func (r *PostgresRepo) GetRequest(ctx context.Context, requestID string) (model.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(r.pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Request{}, fmt.Errorf("get request %s: %w", requestID, marketerrors.ErrRequestNotFound)
		}
		return model.Request{}, ioError("get request "+requestID, err)
	}
	return req, nil
}

// ListRequests returns matching requests in insertion order
func (r *PostgresRepo) ListRequests(ctx context.Context, match RequestPredicate) ([]model.Request, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+requestColumns+` FROM requests ORDER BY seq`)
	if err != nil {
		return nil, ioError("list requests", err)
	}
	defer rows.Close()

	out := []model.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, ioError("scan request", err)
		}
		if match == nil || match(req) {
			out = append(out, req)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("list requests", err)
	}
	return out, nil
}

// UpdateRequest locks the row, applies mutate and writes the result back
func (r *PostgresRepo) UpdateRequest(ctx context.Context, requestID string, mutate RequestMutator) (model.Request, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Request{}, ioError("begin update request", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := updateRequestTx(ctx, tx, requestID, mutate)
	if err != nil {
		return model.Request{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Request{}, ioError("commit update request "+requestID, err)
	}
	return updated, nil
}

func updateRequestTx(ctx context.Context, tx pgx.Tx, requestID string, mutate RequestMutator) (model.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1 FOR UPDATE`
	current, err := scanRequest(tx.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Request{}, fmt.Errorf("update request %s: %w", requestID, marketerrors.ErrRequestNotFound)
		}
		return model.Request{}, ioError("lock request "+requestID, err)
	}

	next := cloneRequest(current)
	if err := mutate(&next); err != nil {
		return model.Request{}, err
	}
	next.RequestID = current.RequestID
	next.StudentID = current.StudentID

	// the status guard turns a lost race into zero affected rows
	update := `UPDATE requests
	           SET title = $3, subject = $4, description = $5, delivery_types = $6, budget = $7, status = $8
	           WHERE id = $1 AND status = $2`
	tag, err := tx.Exec(ctx, update,
		requestID,
		current.Status,
		next.Title,
		next.Subject,
		next.Description,
		deliveryStrings(next.DeliveryTypes),
		next.Budget,
		next.Status)
	if err != nil {
		return model.Request{}, ioError("update request "+requestID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.Request{}, fmt.Errorf("update request %s: %w", requestID, marketerrors.ErrInvalidState)
	}
	return next, nil
}

// InsertBid records a bid while holding a share lock on an open request
func (r *PostgresRepo) InsertBid(ctx context.Context, bid model.Bid) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ioError("begin insert bid", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status model.RequestStatus
	err = tx.QueryRow(ctx, `SELECT status FROM requests WHERE id = $1 FOR SHARE`, bid.RequestID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("insert bid for request %s: %w", bid.RequestID, marketerrors.ErrRequestNotFound)
		}
		return ioError("lock request "+bid.RequestID, err)
	}
	if status != model.StatusOpen {
		return fmt.Errorf("insert bid for request %s: %w", bid.RequestID, marketerrors.ErrRequestNotOpen)
	}

	query := `INSERT INTO bids (` + bidColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(ctx, query,
		bid.BidID,
		bid.RequestID,
		bid.HelperID,
		bid.HelperName,
		bid.HelperRating,
		bid.Price,
		bid.DeliveryTime,
		bid.Message,
		bid.CreatedAt)
	if err != nil {
		return ioError("insert bid "+bid.BidID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return ioError("commit insert bid "+bid.BidID, err)
	}
	return nil
}

// GetBid returns a bid by id
func (r *PostgresRepo) GetBid(ctx context.Context, bidID string) (model.Bid, error) {
	bid, err := scanBid(r.pool.QueryRow(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, bidID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, marketerrors.ErrBidNotFound)
		}
		return model.Bid{}, ioError("get bid "+bidID, err)
	}
	return bid, nil
}

// ListBids returns matching bids in insertion order
func (r *PostgresRepo) ListBids(ctx context.Context, match BidPredicate) ([]model.Bid, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bidColumns+` FROM bids ORDER BY seq`)
	if err != nil {
		return nil, ioError("list bids", err)
	}
	defer rows.Close()

	out := []model.Bid{}
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, ioError("scan bid", err)
		}
		if match == nil || match(bid) {
			out = append(out, bid)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("list bids", err)
	}
	return out, nil
}

// CountBids returns the number of bids placed on a request
func (r *PostgresRepo) CountBids(ctx context.Context, requestID string) (int, error) {
	query := `SELECT (SELECT count(*) FROM bids WHERE request_id = r.id) FROM requests r WHERE r.id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, requestID).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("count bids for request %s: %w", requestID, marketerrors.ErrRequestNotFound)
		}
		return 0, ioError("count bids for request "+requestID, err)
	}
	return count, nil
}

// AcceptBid updates the request and inserts its conversation in one transaction
func (r *PostgresRepo) AcceptBid(ctx context.Context, requestID string, mutate RequestMutator, conv model.Conversation) (model.Request, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Request{}, ioError("begin accept bid", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated, err := updateRequestTx(ctx, tx, requestID, mutate)
	if err != nil {
		return model.Request{}, err
	}

	query := `INSERT INTO conversations (` + conversationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = tx.Exec(ctx, query,
		conv.ConversationID,
		requestID,
		conv.BidID,
		conv.RequestTitle,
		conv.StudentID,
		conv.StudentName,
		conv.HelperID,
		conv.HelperName,
		conv.CreatedAt)
	if err != nil {
		return model.Request{}, ioError("insert conversation "+conv.ConversationID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Request{}, ioError("commit accept bid on "+requestID, err)
	}
	return updated, nil
}

// GetConversation returns a conversation by id
func (r *PostgresRepo) GetConversation(ctx context.Context, conversationID string) (model.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`
	conv, err := scanConversation(r.pool.QueryRow(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Conversation{}, fmt.Errorf("get conversation %s: %w", conversationID, marketerrors.ErrConversationNotFound)
		}
		return model.Conversation{}, ioError("get conversation "+conversationID, err)
	}
	return conv, nil
}

// ListConversations returns matching conversations in creation order
func (r *PostgresRepo) ListConversations(ctx context.Context, match ConversationPredicate) ([]model.Conversation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+conversationColumns+` FROM conversations ORDER BY seq`)
	if err != nil {
		return nil, ioError("list conversations", err)
	}
	defer rows.Close()

	out := []model.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, ioError("scan conversation", err)
		}
		if match == nil || match(conv) {
			out = append(out, conv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("list conversations", err)
	}
	return out, nil
}

// InsertMessage appends a message to an existing conversation
func (r *PostgresRepo) InsertMessage(ctx context.Context, msg model.Message) error {
	query := `INSERT INTO messages (id, conversation_id, sender_id, sender_name, body, created_at)
	          SELECT $1, c.id, $3, $4, $5, $6 FROM conversations c WHERE c.id = $2`
	tag, err := r.pool.Exec(ctx, query,
		msg.MessageID,
		msg.ConversationID,
		msg.SenderID,
		msg.SenderName,
		msg.Body,
		msg.CreatedAt)
	if err != nil {
		return ioError("insert message "+msg.MessageID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("insert message into %s: %w", msg.ConversationID, marketerrors.ErrConversationNotFound)
	}
	return nil
}

// ListMessages returns a conversation's messages in timestamp order
func (r *PostgresRepo) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if _, err := r.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	query := `SELECT id, conversation_id, sender_id, sender_name, body, created_at
	          FROM messages WHERE conversation_id = $1 ORDER BY created_at, seq`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, ioError("list messages of "+conversationID, err)
	}
	defer rows.Close()

	out := []model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.MessageID, &msg.ConversationID, &msg.SenderID, &msg.SenderName, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, ioError("scan message", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("list messages of "+conversationID, err)
	}
	return out, nil
}
