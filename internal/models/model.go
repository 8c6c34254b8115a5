package models

import "time"

// Identity is an authenticated participant as seen by the marketplace
type Identity struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
}

// Request represents a student's posted help request
type Request struct {
	RequestID     string         `json:"request_id"`
	Title         string         `json:"title"`
	Subject       Subject        `json:"subject"`
	Description   string         `json:"description"`
	DeliveryTypes []DeliveryType `json:"delivery_types"`
	Deadline      time.Time      `json:"deadline"`
	Budget        *float64       `json:"budget,omitempty"`
	Status        RequestStatus  `json:"status"`
	StudentID     string         `json:"student_id"`
	StudentName   string         `json:"student_name"`
	CreatedAt     time.Time      `json:"created_at"`
}

// HasDeliveryType reports whether the request accepts the given delivery type
func (r Request) HasDeliveryType(dt DeliveryType) bool {
	for _, t := range r.DeliveryTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// RequestDraft carries the fields a student fills in when posting a request
type RequestDraft struct {
	Title         string
	Subject       Subject
	Description   string
	DeliveryTypes []DeliveryType
	Deadline      time.Time
	Budget        *float64
}

// Bid represents a helper's proposal for a request. Bids are never mutated.
type Bid struct {
	BidID        string    `json:"bid_id"`
	RequestID    string    `json:"request_id"`
	HelperID     string    `json:"helper_id"`
	HelperName   string    `json:"helper_name"`
	HelperRating float64   `json:"helper_rating"`
	Price        float64   `json:"price"`
	DeliveryTime string    `json:"delivery_time"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// Conversation is the private thread opened when a bid is accepted.
// Status is not stored, it is derived from the owning request.
type Conversation struct {
	ConversationID string             `json:"conversation_id"`
	RequestID      string             `json:"request_id"`
	BidID          string             `json:"bid_id"`
	RequestTitle   string             `json:"request_title"`
	StudentID      string             `json:"student_id"`
	StudentName    string             `json:"student_name"`
	HelperID       string             `json:"helper_id"`
	HelperName     string             `json:"helper_name"`
	Status         ConversationStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}

// HasParticipant reports whether userID is the student or the helper of the conversation
func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.StudentID == userID || c.HelperID == userID)
}

// Message is a single entry in a conversation
type Message struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}
