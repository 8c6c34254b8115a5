package handler

import (
	"net/http"
	"testing"
	"time"

	"helpmarket/internal/marketerrors"
	messaging "helpmarket/internal/messagingService"
	model "helpmarket/internal/models"
	"helpmarket/services/market/helpers"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestListConversationsHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := NewMockMessagingServiceInterface(ctrl)
	router := newTestRouter(&sarah)
	router.GET("/conversations", NewMessagingHandler(mockService).ListConversationsHandler)

	last := model.Message{MessageID: "m1", ConversationID: "c1", SenderID: alex.UserID, Body: "hi", CreatedAt: time.Now()}
	mockService.EXPECT().ConversationsFor(gomock.Any(), sarah.UserID).Return([]messaging.ConversationSummary{
		{
			Conversation: model.Conversation{ConversationID: "c1", StudentID: sarah.UserID, HelperID: alex.UserID, Status: model.ConversationActive},
			PartnerID:    alex.UserID,
			PartnerName:  alex.DisplayName,
			LastMessage:  &last,
		},
	}, nil)

	status, resp := serve(t, router, http.MethodGet, "/conversations", nil)
	require.Equal(t, http.StatusOK, status)
	convs := resp["data"].([]any)
	require.Len(t, convs, 1)
	first := convs[0].(map[string]any)
	require.Equal(t, "c1", first["conversation_id"])
	require.Equal(t, alex.DisplayName, first["partner_name"])
	require.Equal(t, "active", first["status"])
}

func TestListMessagesHandler(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(m *MockMessagingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "participant",
			mockSetup: func(m *MockMessagingServiceInterface) {
				m.EXPECT().ListMessages(gomock.Any(), "c1", sarah.UserID).Return([]model.Message{{MessageID: "m1", Body: "hi"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "messages retrieved successfully",
		},
		{
			name: "outsider",
			mockSetup: func(m *MockMessagingServiceInterface) {
				m.EXPECT().ListMessages(gomock.Any(), "c1", sarah.UserID).Return(nil, marketerrors.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedMsg:    "not allowed",
		},
		{
			name: "unknown_conversation",
			mockSetup: func(m *MockMessagingServiceInterface) {
				m.EXPECT().ListMessages(gomock.Any(), "c1", sarah.UserID).Return(nil, marketerrors.ErrConversationNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "conversation not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockMessagingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(&sarah)
			router.GET("/conversations/:conversation_id/messages", NewMessagingHandler(mockService).ListMessagesHandler)

			status, resp := serve(t, router, http.MethodGet, "/conversations/c1/messages", nil)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

func TestSendMessageHandler(t *testing.T) {
	tests := []struct {
		name           string
		caller         *model.Identity
		requestBody    any
		mockSetup      func(m *MockMessagingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:        "sent",
			caller:      &alex,
			requestBody: helpers.SendMessageRequest{Body: "Could you share the material?"},
			mockSetup: func(m *MockMessagingServiceInterface) {
				m.EXPECT().
					SendMessage(gomock.Any(), "c1", alex, "Could you share the material?").
					Return(model.Message{MessageID: "m1", ConversationID: "c1", SenderID: alex.UserID, Body: "Could you share the material?"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "message sent",
		},
		{
			name:           "missing_body",
			caller:         &alex,
			requestBody:    map[string]any{},
			mockSetup:      func(m *MockMessagingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "blank_body",
			caller:      &alex,
			requestBody: helpers.SendMessageRequest{Body: "   "},
			mockSetup: func(m *MockMessagingServiceInterface) {
				m.EXPECT().SendMessage(gomock.Any(), "c1", alex, "   ").Return(model.Message{}, marketerrors.ErrInvalidMessage)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid message",
		},
		{
			name:           "anonymous",
			requestBody:    helpers.SendMessageRequest{Body: "hi"},
			mockSetup:      func(m *MockMessagingServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "sign in required",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockMessagingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter(tc.caller)
			router.POST("/conversations/:conversation_id/messages", NewMessagingHandler(mockService).SendMessageHandler)

			status, resp := serve(t, router, http.MethodPost, "/conversations/c1/messages", tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}
