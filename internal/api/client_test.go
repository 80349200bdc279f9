package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/fluxtest"
	"github.com/2beens/fluxtrack/internal/telemetry/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T) (*api.Client, *fluxtest.Server) {
	t.Helper()
	server := fluxtest.NewServer()
	t.Cleanup(server.Close)
	return api.NewClient(server.URL(), "test-token", server.Client(), metrics.NewTestManager()), server
}

func TestClient_GetProfile_NoProfileYet(t *testing.T) {
	client, _ := newTestClient(t)

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestClient_SaveAndGetProfile(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	saved, err := client.SaveProfile(ctx, api.Profile{
		Sex:           "female",
		Age:           34,
		HeightCm:      171,
		WeightKg:      64.5,
		ActivityLevel: "moderate",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	profile, err := client.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "female", profile.Sex)
	assert.Equal(t, 34, profile.Age)
	assert.Equal(t, 64.5, profile.WeightKg)
}

func TestClient_DeleteTodayLog_UnparseableErrorBody(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>boom</html>"))
	}))
	defer testServer.Close()

	client := api.NewClient(testServer.URL, "", testServer.Client(), metrics.NewTestManager())

	err := client.DeleteTodayLog(context.Background())
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, api.CodeRequestFailed, apiErr.Code)
	// message falls back to the code when the body gave none
	assert.Equal(t, api.CodeRequestFailed, apiErr.Message)
}

func TestClient_ErrorBodyParsed(t *testing.T) {
	client, server := newTestClient(t)
	server.FailWith(http.MethodPost, "/logs", http.StatusBadRequest,
		`{"error":"validation_error","message":"weight is required"}`)

	_, err := client.CreateLog(context.Background(), api.CreateLogRequest{Date: "2026-08-30"})
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, api.CodeValidationError, apiErr.Code)
	assert.Equal(t, "weight is required", apiErr.Message)
	assert.False(t, api.IsNotFound(err))
	assert.False(t, api.IsCancelled(err))
}

func TestClient_WriteRequestHeadersAndBodies(t *testing.T) {
	var (
		contentType string
		bodyLen     int64
	)
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		bodyLen = r.ContentLength
		w.WriteHeader(http.StatusNoContent)
	}))
	defer testServer.Close()

	client := api.NewClient(testServer.URL, "", testServer.Client(), metrics.NewTestManager())
	ctx := context.Background()

	_, err := client.SaveProfile(ctx, api.Profile{Sex: "male"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Greater(t, bodyLen, int64(0))

	require.NoError(t, client.DeleteTodayLog(ctx))
	assert.Empty(t, contentType)
	assert.LessOrEqual(t, bodyLen, int64(0))
}

func TestClient_Cancellation(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))
	defer testServer.Close()
	defer close(release)

	client := api.NewClient(testServer.URL, "", testServer.Client(), metrics.NewTestManager())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := client.GetTodayLog(ctx)
		errCh <- err
	}()

	<-entered
	cancel()

	err := <-errCh
	require.Error(t, err)
	assert.True(t, api.IsCancelled(err))

	// a cancelled call is never a typed backend error
	var apiErr *api.Error
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_GetCurrentWeekTarget_Cached(t *testing.T) {
	client, server := newTestClient(t)
	server.SetWeekTarget(&api.WeeklyTarget{
		Week:           3,
		TargetWeightKg: 81.2,
		Calories:       2150,
		DeficitKcal:    350,
	})

	ctx := context.Background()
	first, err := client.GetCurrentWeekTarget(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 3, first.Week)

	second, err := client.GetCurrentWeekTarget(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first, second)

	assert.Equal(t, 1, server.Hits(http.MethodGet, "/plans/current-week"))
}

func TestClient_GetPendingNotification_None(t *testing.T) {
	client, server := newTestClient(t)

	pending, err := client.GetPendingNotification(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pending)

	// older backends respond 404 instead of an empty body
	server.FailWith(http.MethodGet, "/notifications/pending",
		http.StatusNotFound, `{"error":"not_found"}`)
	pending, err = client.GetPendingNotification(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestClient_RequestCount(t *testing.T) {
	client, server := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.GetProfile(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, server.Hits(http.MethodGet, "/profile"))
}
