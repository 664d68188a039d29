package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID      string `json:"id"`
	StaffID string `json:"staffId"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), Options{})
	require.NoError(t, err)
	return c
}

func TestClient_Push(t *testing.T) {
	var got row
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(t).Push(context.Background(), srv.URL, row{ID: "r1", StaffID: "T001"})

	require.NoError(t, err)
	assert.Equal(t, row{ID: "r1", StaffID: "T001"}, got)
}

func TestClient_PushFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestClient(t).Push(context.Background(), srv.URL, row{ID: "r1"})

	assert.ErrorContains(t, err, "status 502")
}

func TestClient_PushWithoutEndpoint(t *testing.T) {
	err := newTestClient(t).Push(context.Background(), "", row{})

	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestClient_FetchAcceptsArrayAndEnvelope(t *testing.T) {
	bodies := map[string]string{
		"array":    `[{"id":"r1","staffId":"T001"}]`,
		"records":  `{"records":[{"id":"r1","staffId":"T001"}]}`,
		"data":     `{"success":true,"data":[{"id":"r1","staffId":"T001"}]}`,
		"whitespc": "\n  [{\"id\":\"r1\",\"staffId\":\"T001\"}]",
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "2025", r.URL.Query().Get("year"))
				assert.Equal(t, "6", r.URL.Query().Get("month"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			var rows []row
			err := newTestClient(t).Fetch(context.Background(), srv.URL, 2025, 6, &rows)

			require.NoError(t, err)
			assert.Equal(t, []row{{ID: "r1", StaffID: "T001"}}, rows)
		})
	}
}

func TestClient_FetchRejectsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>login required</html>"))
	}))
	defer srv.Close()

	var rows []row
	err := newTestClient(t).Fetch(context.Background(), srv.URL, 2025, 6, &rows)

	assert.ErrorIs(t, err, ErrUnexpectedBody)
}

func TestNewClient_RejectsBadCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), Options{CredentialsJSON: []byte("{not json")})

	assert.Error(t, err)
}
