package dailylog

import (
	"encoding/json"
	"testing"

	"github.com/2beens/fluxtrack/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequest_ToWire_StripsClientIDs(t *testing.T) {
	req := CreateRequest{
		Date:       "2026-08-30",
		WeightKg:   82.4,
		SleepHours: 7.5,
		PlannedTraining: []PlannedSession{
			{ClientID: "tmp-1", Type: "run", DurationMin: 30},
			{ClientID: "tmp-2", Type: "lift", DurationMin: 45, Notes: "upper body"},
		},
	}

	wireBytes, err := json.Marshal(req.toWire())
	require.NoError(t, err)

	assert.NotContains(t, string(wireBytes), "_id")
	assert.NotContains(t, string(wireBytes), "tmp-1")
	assert.Contains(t, string(wireBytes), `"type":"run"`)
}

func TestActualToWire_StripsServerOrdering(t *testing.T) {
	sessions := []ActualSession{
		{ClientID: "tmp-9", Type: "run", DurationMin: 30, PerceivedIntensity: 7, SessionOrder: 2},
		{Type: "lift", DurationMin: 40, PerceivedIntensity: 8, SessionOrder: 1},
	}

	wire := actualToWire(sessions)
	require.Len(t, wire, 2)

	wireBytes, err := json.Marshal(wire)
	require.NoError(t, err)
	assert.NotContains(t, string(wireBytes), "sessionOrder")
	assert.NotContains(t, string(wireBytes), "_id")

	assert.Equal(t, "run", wire[0].Type)
	assert.Equal(t, 7, wire[0].PerceivedIntensity)
}

func TestFromWire_AssignsClientIDs(t *testing.T) {
	wireLog := &api.DailyLog{
		ID:       "log-1",
		Date:     "2026-08-30",
		WeightKg: 82.4,
		PlannedTraining: []api.TrainingSession{
			{Type: "run", DurationMin: 30},
			{Type: "lift", DurationMin: 45},
		},
		ActualTraining: []api.ActualTrainingSession{
			{Type: "run", DurationMin: 28, PerceivedIntensity: 6, SessionOrder: 1},
		},
	}

	dailyLog := fromWire(wireLog)
	require.NotNil(t, dailyLog)
	require.Len(t, dailyLog.PlannedTraining, 2)
	require.Len(t, dailyLog.ActualTraining, 1)

	assert.NotEmpty(t, dailyLog.PlannedTraining[0].ClientID)
	assert.NotEmpty(t, dailyLog.PlannedTraining[1].ClientID)
	assert.NotEqual(t, dailyLog.PlannedTraining[0].ClientID, dailyLog.PlannedTraining[1].ClientID)

	// server ordering survives the mapping for display
	assert.Equal(t, 1, dailyLog.ActualTraining[0].SessionOrder)
}

func TestFromWire_Nil(t *testing.T) {
	assert.Nil(t, fromWire(nil))
}
