package query

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"helpmarket/internal/marketerrors"
	"helpmarket/internal/models"
	"helpmarket/internal/repository"
)

// SortKey orders search results. The zero value keeps insertion order.
type SortKey string

const (
	SortNone     SortKey = ""
	SortNewest   SortKey = "created_at" // newest first
	SortDeadline SortKey = "deadline"   // soonest first
	SortBudget   SortKey = "budget"     // highest first, unbudgeted last
)

const sortKeysUsage = "created_at, deadline or budget"

// ParseSortKey validates a sort key coming from the outside
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortNone, SortNewest, SortDeadline, SortBudget:
		return k, nil
	default:
		return "", fmt.Errorf("%w - sort must be one of %s", marketerrors.ErrInvalidRequest, sortKeysUsage)
	}
}

// Criteria filters requests. Zero-value fields are wildcards and all
// non-zero fields must match.
type Criteria struct {
	// Text is matched case-insensitively against title, description and subject.
	Text         string
	Subject      models.Subject
	DeliveryType models.DeliveryType
	Status       models.RequestStatus
	Sort         SortKey
}

func (c Criteria) matches(req models.Request) bool {
	if c.Subject != "" && req.Subject != c.Subject {
		return false
	}
	if c.DeliveryType != "" && !req.HasDeliveryType(c.DeliveryType) {
		return false
	}
	if c.Status != "" && req.Status != c.Status {
		return false
	}
	if text := strings.ToLower(strings.TrimSpace(c.Text)); text != "" {
		return strings.Contains(strings.ToLower(req.Title), text) ||
			strings.Contains(strings.ToLower(req.Description), text) ||
			strings.Contains(strings.ToLower(string(req.Subject)), text)
	}
	return true
}

// RequestSummary is a request together with its derived bid count
type RequestSummary struct {
	models.Request
	BidCount int `json:"bid_count"`
}

// StudentRequests groups a student's requests by status
type StudentRequests struct {
	Open       []RequestSummary `json:"open"`
	InProgress []RequestSummary `json:"in_progress"`
	Completed  []RequestSummary `json:"completed"`
}

// DashboardStats are the marketplace-wide figures shown on the dashboard
type DashboardStats struct {
	OpenRequests  int `json:"open_requests"`
	TotalBids     int `json:"total_bids"`
	AverageBudget int `json:"average_budget"`
}

// QueryService answers read-only queries against the entity store
type QueryService struct {
	repo repository.MarketDB
}

// NewQueryService creates a new QueryService instance
func NewQueryService(repo repository.MarketDB) *QueryService {
	return &QueryService{repo: repo}
}

// GetRequest returns a request by id with its bid count
func (s *QueryService) GetRequest(ctx context.Context, requestID string) (RequestSummary, error) {
	if requestID == "" {
		return RequestSummary{}, fmt.Errorf("service: %w - empty request ID", marketerrors.ErrRequestNotFound)
	}

	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return RequestSummary{}, fmt.Errorf("service: failed to get request %s: %w", requestID, err)
	}
	count, err := s.repo.CountBids(ctx, requestID)
	if err != nil {
		return RequestSummary{}, fmt.Errorf("service: failed to count bids for request %s: %w", requestID, err)
	}
	return RequestSummary{Request: req, BidCount: count}, nil
}

// Search returns the requests matching criteria
func (s *QueryService) Search(ctx context.Context, criteria Criteria) ([]RequestSummary, error) {
	reqs, err := s.repo.ListRequests(ctx, criteria.matches)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search requests: %w", err)
	}

	out, err := s.summarize(ctx, reqs)
	if err != nil {
		return nil, err
	}
	sortSummaries(out, criteria.Sort)
	return out, nil
}

func (s *QueryService) summarize(ctx context.Context, reqs []models.Request) ([]RequestSummary, error) {
	counts, err := s.bidCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RequestSummary, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, RequestSummary{Request: req, BidCount: counts[req.RequestID]})
	}
	return out, nil
}

func (s *QueryService) bidCounts(ctx context.Context) (map[string]int, error) {
	bids, err := s.repo.ListBids(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("service: failed to count bids: %w", err)
	}
	counts := make(map[string]int)
	for _, b := range bids {
		counts[b.RequestID]++
	}
	return counts, nil
}

func sortSummaries(list []RequestSummary, key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	case SortDeadline:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Deadline.Before(list[j].Deadline) })
	case SortBudget:
		sort.SliceStable(list, func(i, j int) bool {
			bi, bj := list[i].Budget, list[j].Budget
			if bi == nil || bj == nil {
				return bi != nil && bj == nil
			}
			return *bi > *bj
		})
	}
}

// BidsForRequest returns the bids placed on a request in submission order
func (s *QueryService) BidsForRequest(ctx context.Context, requestID string) ([]models.Bid, error) {
	if _, err := s.repo.GetRequest(ctx, requestID); err != nil {
		return nil, fmt.Errorf("service: failed to get request %s: %w", requestID, err)
	}

	bids, err := s.repo.ListBids(ctx, func(b models.Bid) bool { return b.RequestID == requestID })
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for request %s: %w", requestID, err)
	}
	return bids, nil
}

// RequestsByStudent returns the requests owned by a student grouped by status
func (s *QueryService) RequestsByStudent(ctx context.Context, studentID string) (StudentRequests, error) {
	if studentID == "" {
		return StudentRequests{}, fmt.Errorf("service: %w - empty student ID", marketerrors.ErrUnauthenticated)
	}

	reqs, err := s.repo.ListRequests(ctx, func(r models.Request) bool { return r.StudentID == studentID })
	if err != nil {
		return StudentRequests{}, fmt.Errorf("service: failed to list requests of %s: %w", studentID, err)
	}
	summaries, err := s.summarize(ctx, reqs)
	if err != nil {
		return StudentRequests{}, err
	}

	grouped := StudentRequests{
		Open:       []RequestSummary{},
		InProgress: []RequestSummary{},
		Completed:  []RequestSummary{},
	}
	for _, sum := range summaries {
		switch sum.Status {
		case models.StatusOpen:
			grouped.Open = append(grouped.Open, sum)
		case models.StatusInProgress:
			grouped.InProgress = append(grouped.InProgress, sum)
		case models.StatusCompleted:
			grouped.Completed = append(grouped.Completed, sum)
		}
	}
	return grouped, nil
}

// DashboardStats computes open request count, total bids and the rounded
// average budget over requests that carry one
func (s *QueryService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	reqs, err := s.repo.ListRequests(ctx, nil)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("service: failed to list requests: %w", err)
	}
	bids, err := s.repo.ListBids(ctx, nil)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("service: failed to list bids: %w", err)
	}

	stats := DashboardStats{TotalBids: len(bids)}
	var budgetSum float64
	var budgeted int
	for _, r := range reqs {
		if r.Status == models.StatusOpen {
			stats.OpenRequests++
		}
		if r.Budget != nil {
			budgetSum += *r.Budget
			budgeted++
		}
	}
	if budgeted > 0 {
		stats.AverageBudget = int(math.Round(budgetSum / float64(budgeted)))
	}
	return stats, nil
}

// TimeRemaining reports how long is left until the request's deadline
func (s *QueryService) TimeRemaining(ctx context.Context, requestID string, now time.Time) (Remaining, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return Remaining{}, fmt.Errorf("service: failed to get request %s: %w", requestID, err)
	}
	return Until(req.Deadline, now), nil
}
