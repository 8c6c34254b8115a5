package bidding

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"helpmarket/internal/marketerrors"
	model "helpmarket/internal/models"
	"helpmarket/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	student = model.Identity{UserID: "student-sarah", DisplayName: "Sarah Johnson", Rating: 4.6}
	helper1 = model.Identity{UserID: "helper-alex", DisplayName: "Alex Mathematics", Rating: 4.8}
	helper2 = model.Identity{UserID: "helper-maria", DisplayName: "Maria Calculus Expert", Rating: 4.9}
)

func budget(v float64) *float64 { return &v }

func calculusDraft() model.RequestDraft {
	return model.RequestDraft{
		Title:         "Help with Calculus Integration Problems",
		Subject:       model.SubjectMathematics,
		Description:   "integration by parts and substitution",
		DeliveryTypes: []model.DeliveryType{model.DeliveryText, model.DeliveryAudio},
		Deadline:      time.Now().Add(48 * time.Hour),
		Budget:        budget(25),
	}
}

// Tests PostRequest
func TestBiddingService_PostRequest(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	tests := []struct {
		name          string
		student       model.Identity
		draft         func() model.RequestDraft
		expectedError error
		wantTypes     []model.DeliveryType
	}{
		{
			name:      "valid_request",
			student:   student,
			draft:     calculusDraft,
			wantTypes: []model.DeliveryType{model.DeliveryText, model.DeliveryAudio},
		},
		{
			name:    "duplicate_delivery_types_collapse",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.DeliveryTypes = []model.DeliveryType{model.DeliveryAudio, model.DeliveryAudio, model.DeliveryText}
				return d
			},
			wantTypes: []model.DeliveryType{model.DeliveryAudio, model.DeliveryText},
		},
		{
			name:    "no_budget",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.Budget = nil
				return d
			},
			wantTypes: []model.DeliveryType{model.DeliveryText, model.DeliveryAudio},
		},
		{
			name:    "empty_delivery_types",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.DeliveryTypes = nil
				return d
			},
			expectedError: marketerrors.ErrInvalidRequest,
		},
		{
			name:    "unknown_delivery_type",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.DeliveryTypes = []model.DeliveryType{"Video"}
				return d
			},
			expectedError: marketerrors.ErrInvalidRequest,
		},
		{
			name:    "unknown_subject",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.Subject = "mathematics"
				return d
			},
			expectedError: marketerrors.ErrInvalidRequest,
		},
		{
			name:    "blank_title",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.Title = "   "
				return d
			},
			expectedError: marketerrors.ErrInvalidRequest,
		},
		{
			name:    "deadline_in_past",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.Deadline = time.Now().Add(-time.Hour)
				return d
			},
			expectedError: marketerrors.ErrInvalidRequest,
		},
		{
			name:    "negative_budget",
			student: student,
			draft: func() model.RequestDraft {
				d := calculusDraft()
				d.Budget = budget(-1)
				return d
			},
			expectedError: marketerrors.ErrInvalidRequest,
		},
		{
			name:          "anonymous_student",
			student:       model.Identity{},
			draft:         calculusDraft,
			expectedError: marketerrors.ErrInvalidRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := repository.NewMemoryRepo()
			service := NewBiddingService(repo)

			req, err := service.PostRequest(ctx, tc.student, tc.draft())
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				all, listErr := repo.ListRequests(ctx, nil)
				require.NoError(t, listErr)
				require.Empty(t, all)
				return
			}
			require.NoError(t, err)

			_, parseErr := uuid.Parse(req.RequestID)
			require.NoError(t, parseErr, "RequestID should be a valid UUID")
			require.Equal(t, model.StatusOpen, req.Status)
			require.Equal(t, tc.student.UserID, req.StudentID)
			require.Equal(t, tc.student.DisplayName, req.StudentName)
			require.Equal(t, tc.wantTypes, req.DeliveryTypes)
			require.WithinDuration(t, now, req.CreatedAt, 2*time.Second)

			stored, err := repo.GetRequest(ctx, req.RequestID)
			require.NoError(t, err)
			require.Equal(t, req.RequestID, stored.RequestID)
		})
	}
}

// Tests SubmitBid
func TestBiddingService_SubmitBid(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		status        model.RequestStatus
		requestID     string
		helper        model.Identity
		price         float64
		deliveryTime  string
		message       string
		expectedError error
	}{
		{
			name:         "valid_bid",
			status:       model.StatusOpen,
			helper:       helper1,
			price:        20,
			deliveryTime: "Within 24 hours",
			message:      "step-by-step solutions",
		},
		{
			name:         "zero_price_allowed",
			status:       model.StatusOpen,
			helper:       helper1,
			price:        0,
			deliveryTime: "Within 24 hours",
			message:      "free of charge",
		},
		{
			name:          "negative_price",
			status:        model.StatusOpen,
			helper:        helper1,
			price:         -5,
			deliveryTime:  "Within 24 hours",
			message:       "cheap",
			expectedError: marketerrors.ErrInvalidBid,
		},
		{
			name:          "nan_price",
			status:        model.StatusOpen,
			helper:        helper1,
			price:         math.NaN(),
			deliveryTime:  "Within 24 hours",
			message:       "cheap",
			expectedError: marketerrors.ErrInvalidBid,
		},
		{
			name:          "missing_message",
			status:        model.StatusOpen,
			helper:        helper1,
			price:         20,
			deliveryTime:  "Within 24 hours",
			message:       " ",
			expectedError: marketerrors.ErrInvalidBid,
		},
		{
			name:          "missing_delivery_time",
			status:        model.StatusOpen,
			helper:        helper1,
			price:         20,
			message:       "hello",
			expectedError: marketerrors.ErrInvalidBid,
		},
		{
			name:          "anonymous_helper",
			status:        model.StatusOpen,
			price:         20,
			deliveryTime:  "Within 24 hours",
			message:       "hello",
			expectedError: marketerrors.ErrInvalidBid,
		},
		{
			name:          "self_bid",
			status:        model.StatusOpen,
			helper:        student,
			price:         20,
			deliveryTime:  "Within 24 hours",
			message:       "I will help myself",
			expectedError: marketerrors.ErrSelfBidForbidden,
		},
		{
			name:          "request_in_progress",
			status:        model.StatusInProgress,
			helper:        helper1,
			price:         20,
			deliveryTime:  "Within 24 hours",
			message:       "too late",
			expectedError: marketerrors.ErrRequestNotOpen,
		},
		{
			name:          "request_completed",
			status:        model.StatusCompleted,
			helper:        helper1,
			price:         20,
			deliveryTime:  "Within 24 hours",
			message:       "too late",
			expectedError: marketerrors.ErrRequestNotOpen,
		},
		{
			name:          "unknown_request",
			status:        model.StatusOpen,
			requestID:     "missing",
			helper:        helper1,
			price:         20,
			deliveryTime:  "Within 24 hours",
			message:       "hello",
			expectedError: marketerrors.ErrRequestNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := repository.NewMemoryRepo()
			service := NewBiddingService(repo)

			req, err := service.PostRequest(ctx, student, calculusDraft())
			require.NoError(t, err)
			if tc.status != model.StatusOpen {
				_, err = repo.UpdateRequest(ctx, req.RequestID, func(r *model.Request) error {
					r.Status = tc.status
					return nil
				})
				require.NoError(t, err)
			}

			requestID := req.RequestID
			if tc.requestID != "" {
				requestID = tc.requestID
			}

			bid, err := service.SubmitBid(ctx, requestID, tc.helper, tc.price, tc.deliveryTime, tc.message)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				count, countErr := repo.CountBids(ctx, req.RequestID)
				require.NoError(t, countErr)
				require.Zero(t, count)
				return
			}
			require.NoError(t, err)

			_, parseErr := uuid.Parse(bid.BidID)
			require.NoError(t, parseErr, "BidID should be a valid UUID")
			require.Equal(t, req.RequestID, bid.RequestID)
			require.Equal(t, tc.helper.UserID, bid.HelperID)
			require.Equal(t, tc.helper.Rating, bid.HelperRating)
			require.Equal(t, tc.price, bid.Price)
		})
	}
}

func TestBiddingService_SubmitBid_ClampsRating(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	service := NewBiddingService(repository.NewMemoryRepo())
	req, err := service.PostRequest(ctx, student, calculusDraft())
	require.NoError(t, err)

	generous := model.Identity{UserID: "h9", DisplayName: "Overrated", Rating: 7}
	bid, err := service.SubmitBid(ctx, req.RequestID, generous, 10, "today", "hi")
	require.NoError(t, err)
	require.Equal(t, 5.0, bid.HelperRating)
}

// Walks a request through open -> in_progress -> completed
func TestBiddingService_AcceptAndComplete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := repository.NewMemoryRepo()
	service := NewBiddingService(repo)

	r1, err := service.PostRequest(ctx, student, calculusDraft())
	require.NoError(t, err)

	bid1, err := service.SubmitBid(ctx, r1.RequestID, helper1, 20, "Within 24 hours", "graduate student")
	require.NoError(t, err)
	bid2, err := service.SubmitBid(ctx, r1.RequestID, helper2, 25, "Within 12 hours", "PhD in Mathematics")
	require.NoError(t, err)

	// only the owner may accept
	_, err = service.AcceptBid(ctx, r1.RequestID, bid1.BidID, helper2.UserID)
	require.ErrorIs(t, err, marketerrors.ErrForbidden)

	conv, err := service.AcceptBid(ctx, r1.RequestID, bid1.BidID, student.UserID)
	require.NoError(t, err)
	require.Equal(t, r1.RequestID, conv.RequestID)
	require.Equal(t, student.UserID, conv.StudentID)
	require.Equal(t, helper1.UserID, conv.HelperID)
	require.Equal(t, model.ConversationActive, conv.Status)

	stored, err := repo.GetRequest(ctx, r1.RequestID)
	require.NoError(t, err)
	require.Equal(t, model.StatusInProgress, stored.Status)

	_, err = service.AcceptBid(ctx, r1.RequestID, bid2.BidID, student.UserID)
	require.ErrorIs(t, err, marketerrors.ErrRequestNotOpen)

	_, err = service.SubmitBid(ctx, r1.RequestID, helper2, 15, "now", "lower offer")
	require.ErrorIs(t, err, marketerrors.ErrRequestNotOpen)

	completed, err := service.CompleteRequest(ctx, r1.RequestID, student.UserID)
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, completed.Status)

	_, err = service.CompleteRequest(ctx, r1.RequestID, student.UserID)
	require.ErrorIs(t, err, marketerrors.ErrInvalidState)

	convs, err := repo.ListConversations(ctx, nil)
	require.NoError(t, err)
	require.Len(t, convs, 1)
}

func TestBiddingService_AcceptBid_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("bid_from_other_request", func(t *testing.T) {
		t.Parallel()

		service := NewBiddingService(repository.NewMemoryRepo())
		r1, err := service.PostRequest(ctx, student, calculusDraft())
		require.NoError(t, err)
		r2, err := service.PostRequest(ctx, student, calculusDraft())
		require.NoError(t, err)
		other, err := service.SubmitBid(ctx, r2.RequestID, helper1, 20, "soon", "hi")
		require.NoError(t, err)

		_, err = service.AcceptBid(ctx, r1.RequestID, other.BidID, student.UserID)
		require.ErrorIs(t, err, marketerrors.ErrBidNotFound)
	})

	t.Run("unknown_bid", func(t *testing.T) {
		t.Parallel()

		service := NewBiddingService(repository.NewMemoryRepo())
		r1, err := service.PostRequest(ctx, student, calculusDraft())
		require.NoError(t, err)

		_, err = service.AcceptBid(ctx, r1.RequestID, "missing", student.UserID)
		require.ErrorIs(t, err, marketerrors.ErrBidNotFound)
	})

	t.Run("unknown_request", func(t *testing.T) {
		t.Parallel()

		service := NewBiddingService(repository.NewMemoryRepo())
		_, err := service.AcceptBid(ctx, "missing", "b1", student.UserID)
		require.ErrorIs(t, err, marketerrors.ErrRequestNotFound)
	})

	t.Run("empty_request_id_on_complete", func(t *testing.T) {
		t.Parallel()

		service := NewBiddingService(repository.NewMemoryRepo())
		_, err := service.CompleteRequest(ctx, "", student.UserID)
		require.ErrorIs(t, err, marketerrors.ErrRequestNotFound)
	})
}

func TestBiddingService_AcceptBid_ConcurrentSingleWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := repository.NewMemoryRepo()
	service := NewBiddingService(repo)

	r1, err := service.PostRequest(ctx, student, calculusDraft())
	require.NoError(t, err)

	const helpers = 20
	bids := make([]model.Bid, 0, helpers)
	for i := 0; i < helpers; i++ {
		h := model.Identity{UserID: uuid.NewString(), DisplayName: "helper", Rating: 4}
		bid, err := service.SubmitBid(ctx, r1.RequestID, h, float64(10+i), "soon", "pick me")
		require.NoError(t, err)
		bids = append(bids, bid)
	}

	var (
		wg       sync.WaitGroup
		winners  int32
		notOpen  int32
		start    = make(chan struct{})
		acceptID atomic.Value
	)
	for _, bid := range bids {
		wg.Add(1)
		go func(bid model.Bid) {
			defer wg.Done()
			<-start
			_, err := service.AcceptBid(ctx, r1.RequestID, bid.BidID, student.UserID)
			switch {
			case err == nil:
				atomic.AddInt32(&winners, 1)
				acceptID.Store(bid.BidID)
			case errors.Is(err, marketerrors.ErrRequestNotOpen):
				atomic.AddInt32(&notOpen, 1)
			}
		}(bid)
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), winners)
	require.Equal(t, int32(helpers-1), notOpen)

	convs, err := repo.ListConversations(ctx, nil)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	require.Equal(t, acceptID.Load(), convs[0].BidID)
}

// Store failures propagate with their cause
func TestBiddingService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	ioErr := errors.Join(marketerrors.ErrIO, errors.New("connection reset"))

	t.Run("post_request", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		mockRepo := repository.NewMockMarketDB(ctrl)
		service := NewBiddingService(mockRepo)

		mockRepo.EXPECT().InsertRequest(gomock.Any(), gomock.Any()).Return(ioErr)

		_, err := service.PostRequest(ctx, student, calculusDraft())
		require.ErrorIs(t, err, marketerrors.ErrIO)
	})

	t.Run("submit_bid_load", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		mockRepo := repository.NewMockMarketDB(ctrl)
		service := NewBiddingService(mockRepo)

		mockRepo.EXPECT().GetRequest(gomock.Any(), "r1").Return(model.Request{}, ioErr)

		_, err := service.SubmitBid(ctx, "r1", helper1, 20, "soon", "hi")
		require.ErrorIs(t, err, marketerrors.ErrIO)
	})

	t.Run("submit_bid_raced_with_accept", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		mockRepo := repository.NewMockMarketDB(ctrl)
		service := NewBiddingService(mockRepo)

		mockRepo.EXPECT().GetRequest(gomock.Any(), "r1").
			Return(model.Request{RequestID: "r1", StudentID: student.UserID, Status: model.StatusOpen}, nil)
		mockRepo.EXPECT().InsertBid(gomock.Any(), gomock.Any()).Return(marketerrors.ErrRequestNotOpen)

		_, err := service.SubmitBid(ctx, "r1", helper1, 20, "soon", "hi")
		require.ErrorIs(t, err, marketerrors.ErrRequestNotOpen)
	})

	t.Run("accept_commit", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		mockRepo := repository.NewMockMarketDB(ctrl)
		service := NewBiddingService(mockRepo)

		mockRepo.EXPECT().GetRequest(gomock.Any(), "r1").
			Return(model.Request{RequestID: "r1", StudentID: student.UserID, Status: model.StatusOpen}, nil)
		mockRepo.EXPECT().GetBid(gomock.Any(), "b1").
			Return(model.Bid{BidID: "b1", RequestID: "r1", HelperID: helper1.UserID}, nil)
		mockRepo.EXPECT().AcceptBid(gomock.Any(), "r1", gomock.Any(), gomock.Any()).Return(model.Request{}, ioErr)

		_, err := service.AcceptBid(ctx, "r1", "b1", student.UserID)
		require.ErrorIs(t, err, marketerrors.ErrIO)
	})
}
