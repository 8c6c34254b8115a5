package messaging

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"helpmarket/internal/marketerrors"
	"helpmarket/internal/models"
	"helpmarket/internal/repository"
	"helpmarket/utils"
)

// ConversationSummary is a conversation seen from one participant
type ConversationSummary struct {
	models.Conversation
	PartnerID   string          `json:"partner_id"`
	PartnerName string          `json:"partner_name"`
	LastMessage *models.Message `json:"last_message,omitempty"`
}

func (c ConversationSummary) lastActivity() time.Time {
	if c.LastMessage != nil {
		return c.LastMessage.CreatedAt
	}
	return c.CreatedAt
}

// MessagingService manages the message threads opened by accepted bids
type MessagingService struct {
	repo repository.MarketDB
	now  func() time.Time
}

// NewMessagingService creates a new MessagingService instance
func NewMessagingService(repo repository.MarketDB) *MessagingService {
	return &MessagingService{repo: repo, now: time.Now}
}

// ConversationsFor lists the conversations userID takes part in, most recent activity first
func (s *MessagingService) ConversationsFor(ctx context.Context, userID string) ([]ConversationSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", marketerrors.ErrUnauthenticated)
	}

	convs, err := s.repo.ListConversations(ctx, func(c models.Conversation) bool { return c.HasParticipant(userID) })
	if err != nil {
		return nil, fmt.Errorf("service: failed to list conversations of %s: %w", userID, err)
	}

	out := make([]ConversationSummary, 0, len(convs))
	for _, c := range convs {
		conv, err := s.withStatus(ctx, c)
		if err != nil {
			return nil, err
		}
		msgs, err := s.repo.ListMessages(ctx, conv.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("service: failed to list messages of %s: %w", conv.ConversationID, err)
		}

		sum := ConversationSummary{Conversation: conv, PartnerID: conv.HelperID, PartnerName: conv.HelperName}
		if userID == conv.HelperID {
			sum.PartnerID, sum.PartnerName = conv.StudentID, conv.StudentName
		}
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			sum.LastMessage = &last
		}
		out = append(out, sum)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].lastActivity().After(out[j].lastActivity()) })
	return out, nil
}

// GetConversation returns a conversation if userID participates in it
func (s *MessagingService) GetConversation(ctx context.Context, conversationID, userID string) (models.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("service: failed to get conversation %s: %w", conversationID, err)
	}
	if !conv.HasParticipant(userID) {
		return models.Conversation{}, fmt.Errorf("service: %w - %q is not part of conversation %s", marketerrors.ErrForbidden, userID, conversationID)
	}
	return s.withStatus(ctx, conv)
}

// withStatus fills the conversation status from its request
func (s *MessagingService) withStatus(ctx context.Context, conv models.Conversation) (models.Conversation, error) {
	req, err := s.repo.GetRequest(ctx, conv.RequestID)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("service: failed to get request %s of conversation %s: %w", conv.RequestID, conv.ConversationID, err)
	}
	conv.Status = models.ConversationStatusFor(req.Status)
	return conv, nil
}

// ListMessages returns the thread of a conversation in timestamp order
func (s *MessagingService) ListMessages(ctx context.Context, conversationID, userID string) ([]models.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	msgs, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list messages of %s: %w", conversationID, err)
	}
	return msgs, nil
}

// SendMessage appends a message from sender to a conversation they take part in
func (s *MessagingService) SendMessage(ctx context.Context, conversationID string, sender models.Identity, body string) (models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, fmt.Errorf("service: %w - empty message body", marketerrors.ErrInvalidMessage)
	}
	if _, err := s.GetConversation(ctx, conversationID, sender.UserID); err != nil {
		return models.Message{}, err
	}

	msg := models.Message{
		MessageID:      utils.GenerateID(),
		ConversationID: conversationID,
		SenderID:       sender.UserID,
		SenderName:     sender.DisplayName,
		Body:           body,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return models.Message{}, fmt.Errorf("service: failed to store message in %s: %w", conversationID, err)
	}
	return msg, nil
}
