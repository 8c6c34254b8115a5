package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helpmarket/internal/auth"
	model "helpmarket/internal/models"
	"helpmarket/internal/repository"
	"helpmarket/internal/server"
	"helpmarket/services/market/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	sarah   = model.Identity{UserID: "student-sarah", DisplayName: "Sarah Johnson", Rating: 4.6}
	alex    = model.Identity{UserID: "helper-alex", DisplayName: "Alex Mathematics", Rating: 4.8}
	maria   = model.Identity{UserID: "helper-maria", DisplayName: "Maria Calculus Expert", Rating: 4.9}
	physics = model.Identity{UserID: "helper-drphysics", DisplayName: "Dr. Physics", Rating: 5.0}
)

// SetupTestRouter initializes the router with an in-memory repository for integration testing.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := server.NewServices(repository.NewMemoryRepo(), auth.NewSessionStore())
	return server.SetupRouter(svc)
}

// ExecuteRequestAndParse executes an HTTP request as the holder of token and
// returns the decoded envelope. An empty token sends an anonymous request.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// Data returns the data object of a successful response
func Data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response carries no data object: %v", resp)
	return data
}

// SignIn opens a session for identity and returns its bearer token
func SignIn(t *testing.T, router *gin.Engine, identity model.Identity) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/auth/sessions", "", helpers.SignInRequest{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		Rating:      identity.Rating,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return Data(t, resp)["token"].(string)
}

func budget(v float64) *float64 { return &v }

// PostRequest posts a request as the holder of token and returns its id
func PostRequest(t *testing.T, router *gin.Engine, token string, req helpers.PostRequestRequest) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/requests", token, req)
	require.Equal(t, http.StatusCreated, w.Code, "post request: %v", resp)
	return Data(t, resp)["request_id"].(string)
}

// SubmitBid bids on a request as the holder of token and returns the bid id
func SubmitBid(t *testing.T, router *gin.Engine, token, requestID string, price float64) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/requests/"+requestID+"/bids", token, helpers.SubmitBidRequest{
		Price:        &price,
		DeliveryTime: "Within 24 hours",
		Message:      "I can explain this step by step",
	})
	require.Equal(t, http.StatusCreated, w.Code, "submit bid: %v", resp)
	return Data(t, resp)["bid_id"].(string)
}

func calculusRequest() helpers.PostRequestRequest {
	return helpers.PostRequestRequest{
		Title:         "Help with Calculus Integration Problems",
		Subject:       string(model.SubjectMathematics),
		Description:   "integration by parts and substitution",
		DeliveryTypes: []string{"Text", "Audio"},
		Deadline:      time.Now().Add(48 * time.Hour).UTC(),
		Budget:        budget(25),
	}
}
