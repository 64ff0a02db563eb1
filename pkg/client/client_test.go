package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-data-and-ai/addressbook/internal/httpapi/server"
	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/config"
	"github.com/redhat-data-and-ai/addressbook/pkg/request/httpclient"
	"github.com/redhat-data-and-ai/addressbook/pkg/store"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := cache.New(&cache.Config{Driver: cache.DriverMemory})
	require.NoError(t, err)

	cfg := &config.AppConfig{
		App: config.App{Name: "addressbook", Environment: "test"},
		APIServer: config.APIServerConfig{
			Auth: config.AuthConfig{Enabled: true, APIKeys: []string{"secret"}},
		},
	}
	srv := httptest.NewServer(server.NewAPIServer(cfg, store.New(c)).Handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL + "/", APIKey: "secret"},
		httpclient.DefaultConnectionPoolConfig(), httpclient.DefaultHystrixResiliencyConfig())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{}, httpclient.DefaultConnectionPoolConfig(), httpclient.DefaultHystrixResiliencyConfig())
	assert.Error(t, err)
}

func TestClient_RoundTrip(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()

	users, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	result, err := client.Update(ctx, "John Doe", types.User{Name: "John Doe", Address: "x"})
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeNoCollection, result.Outcome)

	result, err = client.Add(ctx, types.User{Name: "John Doe", Address: "123 Main St"})
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeAdded, result.Outcome)

	result, err = client.Add(ctx, types.User{Name: "john doe", Address: "456 Oak Ave"})
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDuplicateName, result.Outcome)

	result, err = client.Update(ctx, "JOHN DOE", types.User{Name: "John Doe", Address: "1 New St"})
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeUpdated, result.Outcome)

	result, err = client.Delete(ctx, "Nobody")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeNotFound, result.Outcome)

	users, err = client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.User{{Name: "John Doe", Address: "1 New St"}}, users)

	result, err = client.Delete(ctx, "John Doe")
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeDeleted, result.Outcome)
	assert.Equal(t, "User deleted successfully.", result.Message)
}

func TestClient_InvalidUser(t *testing.T) {
	client := setupClient(t)

	_, err := client.Add(context.Background(), types.User{Name: "John Doe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 400")
}

func TestClient_RetriesOnlyReads(t *testing.T) {
	var posts, gets int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			atomic.AddInt32(&posts, 1)
		case http.MethodGet:
			atomic.AddInt32(&gets, 1)
		}
		// the record may have been stored; only the response is lost
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, err := NewClient(Config{URL: srv.URL},
		httpclient.DefaultConnectionPoolConfig(), httpclient.DefaultHystrixResiliencyConfig())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.Add(ctx, types.User{Name: "John Doe", Address: "123 Main St"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&posts), "add must not be retried")

	_, err = client.List(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(readRetryCount+1), atomic.LoadInt32(&gets))
}

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		status  int
		message string
		want    store.Outcome
		wantErr bool
	}{
		{http.StatusOK, "User added successfully.", store.OutcomeAdded, false},
		{http.StatusOK, "something else", store.OutcomeUnknown, true},
		{http.StatusConflict, "", store.OutcomeDuplicateName, false},
		{http.StatusNotFound, "No user found.", store.OutcomeNoCollection, false},
		{http.StatusNotFound, "User not found.", store.OutcomeNotFound, false},
		{http.StatusUnauthorized, "", store.OutcomeUnknown, true},
	}

	for _, tt := range tests {
		got, err := outcomeFor(tt.status, tt.message)
		if tt.wantErr {
			assert.Error(t, err)
		} else {
			assert.NoError(t, err)
		}
		assert.Equal(t, tt.want, got)
	}
}
