package dailylog_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/fluxtrack/internal/api"
	"github.com/2beens/fluxtrack/internal/dailylog"
	"github.com/2beens/fluxtrack/internal/fluxtest"
	"github.com/2beens/fluxtrack/internal/telemetry/metrics"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) (*dailylog.Store, *fluxtest.Server) {
	t.Helper()
	server := fluxtest.NewServer()
	t.Cleanup(server.Close)
	client := api.NewClient(server.URL(), "", server.Client(), metrics.NewTestManager())
	return dailylog.NewStore(client, metrics.NewTestManager()), server
}

func testCreateRequest(server *fluxtest.Server) dailylog.CreateRequest {
	return dailylog.CreateRequest{
		Date:       server.Today(),
		WeightKg:   gofakeit.Float64Range(60, 100),
		SleepHours: gofakeit.Float64Range(4, 10),
		PlannedTraining: []dailylog.PlannedSession{
			{ClientID: "tmp-1", Type: "run", DurationMin: 30},
			{ClientID: "tmp-2", Type: "lift", DurationMin: 45, Notes: "upper body"},
		},
	}
}

func TestStore_Load_NoLogYet(t *testing.T) {
	store, _ := newTestStore(t)

	dailyLog, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, dailyLog)

	state := store.Snapshot()
	assert.Nil(t, state.Log)
	assert.NoError(t, state.LoadErr)
	assert.False(t, state.Loading)
}

func TestStore_CreateThenLoad_RoundTrip(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	req := testCreateRequest(server)
	created, err := store.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, created)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, req.Date, loaded.Date)
	assert.Equal(t, req.WeightKg, loaded.WeightKg)
	assert.Equal(t, req.SleepHours, loaded.SleepHours)
	require.Len(t, loaded.PlannedTraining, 2)
	assert.Equal(t, "run", loaded.PlannedTraining[0].Type)
	assert.Equal(t, 30, loaded.PlannedTraining[0].DurationMin)
}

func TestStore_Create_StripsClientIDs(t *testing.T) {
	store, server := newTestStore(t)

	_, err := store.Create(context.Background(), testCreateRequest(server))
	require.NoError(t, err)

	sentBody := string(server.LastBody(http.MethodPost, "/logs"))
	require.NotEmpty(t, sentBody)
	assert.NotContains(t, sentBody, "_id")
	assert.NotContains(t, sentBody, "tmp-1")
}

func TestStore_Create_AlreadyExists(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := store.Create(ctx, testCreateRequest(server))
	require.Error(t, err)
	assert.Nil(t, second)
	assert.True(t, api.IsConflict(err))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.CodeAlreadyExists, apiErr.Code)

	// the previously held log stays, the failure lands in SaveErr only
	state := store.Snapshot()
	require.NotNil(t, state.Log)
	assert.Equal(t, first.ID, state.Log.ID)
	assert.Error(t, state.SaveErr)
	assert.NoError(t, state.LoadErr)
}

func TestStore_UpdateActual(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)

	updated, err := store.UpdateActual(ctx, []dailylog.ActualSession{
		{ClientID: "tmp-x", Type: "run", DurationMin: 28, PerceivedIntensity: 6},
		{Type: "lift", DurationMin: 50, PerceivedIntensity: 8},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Len(t, updated.ActualTraining, 2)

	// ordering is assigned by the backend
	assert.Equal(t, 1, updated.ActualTraining[0].SessionOrder)
	assert.Equal(t, 2, updated.ActualTraining[1].SessionOrder)

	sentBody := string(server.LastBody(http.MethodPatch, "/logs/{date}/actual-training"))
	assert.NotContains(t, sentBody, "sessionOrder")
	assert.NotContains(t, sentBody, "_id")
}

func TestStore_UpdateActual_NoLogHeld(t *testing.T) {
	store, server := newTestStore(t)

	updated, err := store.UpdateActual(context.Background(), []dailylog.ActualSession{
		{Type: "run", DurationMin: 30, PerceivedIntensity: 5},
	})
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, 0, server.Hits(http.MethodPatch, "/logs/{date}/actual-training"))
}

func TestStore_Replace_RestoresTraining(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)
	_, err = store.UpdateActual(ctx, []dailylog.ActualSession{
		{Type: "run", DurationMin: 28, PerceivedIntensity: 6},
	})
	require.NoError(t, err)

	newReq := testCreateRequest(server)
	newReq.WeightKg = 83.1
	replaced, err := store.Replace(ctx, newReq)
	require.NoError(t, err)
	require.NotNil(t, replaced)

	assert.Equal(t, 83.1, replaced.WeightKg)
	require.Len(t, replaced.ActualTraining, 1)
	assert.Equal(t, "run", replaced.ActualTraining[0].Type)
	assert.Equal(t, 6, replaced.ActualTraining[0].PerceivedIntensity)

	state := store.Snapshot()
	assert.NoError(t, state.SaveErr)
	assert.False(t, state.Saving)
}

func TestStore_Replace_PartialRestoreFailure(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)
	_, err = store.UpdateActual(ctx, []dailylog.ActualSession{
		{Type: "run", DurationMin: 28, PerceivedIntensity: 6},
	})
	require.NoError(t, err)

	// delete and create keep working, only the restore step fails
	server.FailWith(http.MethodPatch, "/logs/{date}/actual-training",
		http.StatusInternalServerError, `{"error":"internal_error"}`)

	newReq := testCreateRequest(server)
	newReq.WeightKg = 79.9
	replaced, err := store.Replace(ctx, newReq)

	// never both a nil log and no error: the new log is kept, the
	// failure is surfaced
	require.Error(t, err)
	require.NotNil(t, replaced)
	assert.Equal(t, 79.9, replaced.WeightKg)
	assert.Empty(t, replaced.ActualTraining)

	var replaceErr *dailylog.ReplaceError
	require.ErrorAs(t, err, &replaceErr)
	assert.Equal(t, dailylog.ReplaceStageRestore, replaceErr.Stage)
	assert.True(t, replaceErr.Partial())

	state := store.Snapshot()
	require.NotNil(t, state.Log)
	assert.ErrorAs(t, state.SaveErr, &replaceErr)
}

func TestStore_Replace_CreateFailure(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	held, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)

	server.FailWith(http.MethodPost, "/logs",
		http.StatusInternalServerError, `{"error":"internal_error"}`)

	replaced, err := store.Replace(ctx, testCreateRequest(server))
	require.Error(t, err)
	assert.Nil(t, replaced)

	var replaceErr *dailylog.ReplaceError
	require.ErrorAs(t, err, &replaceErr)
	assert.Equal(t, dailylog.ReplaceStageCreate, replaceErr.Stage)
	assert.False(t, replaceErr.Partial())

	// held log unchanged from the caller's perspective
	state := store.Snapshot()
	require.NotNil(t, state.Log)
	assert.Equal(t, held.ID, state.Log.ID)
}

func TestStore_Delete_Idempotent(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx))
	assert.Nil(t, store.Snapshot().Log)

	// deleting again hits a backend 404, still success
	require.NoError(t, store.Delete(ctx))
	assert.Equal(t, 2, server.Hits(http.MethodDelete, "/logs/today"))
}

func TestStore_Load_SupersededByNewerLoad(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, testCreateRequest(server))
	require.NoError(t, err)

	release := server.BlockNext(http.MethodGet, "/logs/today")
	defer release()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		// superseded before it can resolve; must not touch state
		_, _ = store.Load(ctx)
	}()

	// second load: the first one is pinned in the blocked handler, so
	// issuing this one cancels and supersedes it
	var loaded *dailylog.DailyLog
	require.Eventually(t, func() bool {
		if server.Hits(http.MethodGet, "/logs/today") == 0 {
			return false
		}
		loaded, err = store.Load(ctx)
		return true
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, err)
	require.NotNil(t, loaded)

	release()
	<-firstDone

	// only the second load's outcome is reflected
	state := store.Snapshot()
	require.NotNil(t, state.Log)
	assert.Equal(t, loaded.ID, state.Log.ID)
	assert.NoError(t, state.LoadErr)
	assert.False(t, state.Loading)
}

func TestStore_SubscribeNotified(t *testing.T) {
	store, server := newTestStore(t)

	notified := 0
	store.Subscribe(func() {
		notified++
	})

	_, err := store.Create(context.Background(), testCreateRequest(server))
	require.NoError(t, err)
	assert.Greater(t, notified, 0)
}
