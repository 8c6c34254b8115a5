package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	model "helpmarket/internal/models"
	"helpmarket/services/market/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	sarah = model.Identity{UserID: "student-sarah", DisplayName: "Sarah Johnson", Rating: 4.6}
	alex  = model.Identity{UserID: "helper-alex", DisplayName: "Alex Mathematics", Rating: 4.8}
)

// newTestRouter returns a gin engine whose requests are authenticated as caller.
// A nil caller leaves requests anonymous.
func newTestRouter(caller *model.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if caller != nil {
			helpers.SetIdentity(c, "test-token", *caller)
		}
		c.Next()
	})
	return router
}

// serve sends body (raw string or JSON-encoded value) and decodes the envelope
func serve(t *testing.T, router *gin.Engine, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}
