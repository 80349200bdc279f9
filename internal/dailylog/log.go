package dailylog

import (
	"github.com/2beens/fluxtrack/internal/api"

	"github.com/google/uuid"
)

// Display-side models. Training sessions carry a client-only ClientID
// (serialized as "_id") so list UIs have a stable render key; it must
// never reach the wire. The mapping functions below are the only way
// these types cross into api request shapes.

type PlannedSession struct {
	ClientID    string `json:"_id,omitempty"`
	Type        string `json:"type"`
	DurationMin int    `json:"durationMin"`
	Notes       string `json:"notes,omitempty"`
}

type ActualSession struct {
	ClientID           string `json:"_id,omitempty"`
	Type               string `json:"type"`
	DurationMin        int    `json:"durationMin"`
	Notes              string `json:"notes,omitempty"`
	PerceivedIntensity int    `json:"perceivedIntensity"`
	// SessionOrder is assigned by the backend; it is kept for display
	// ordering and stripped from every write.
	SessionOrder int `json:"sessionOrder"`
}

type DailyLog struct {
	ID               string            `json:"id"`
	Date             string            `json:"date"`
	WeightKg         float64           `json:"weightKg"`
	SleepHours       float64           `json:"sleepHours"`
	HRV              *float64          `json:"hrv,omitempty"`
	RestingHeartRate *int              `json:"restingHeartRate,omitempty"`
	BodyFatPct       *float64          `json:"bodyFatPct,omitempty"`
	PlannedTraining  []PlannedSession  `json:"plannedTraining"`
	ActualTraining   []ActualSession   `json:"actualTraining,omitempty"`
	Targets          *api.DailyTargets `json:"targets,omitempty"`
	TDEE             float64           `json:"tdee,omitempty"`
	RecoveryScore    float64           `json:"recoveryScore,omitempty"`
}

// CreateRequest is the display-side input for creating (or replacing)
// a daily log.
type CreateRequest struct {
	Date             string
	WeightKg         float64
	SleepHours       float64
	HRV              *float64
	RestingHeartRate *int
	BodyFatPct       *float64
	PlannedTraining  []PlannedSession
}

func (r CreateRequest) toWire() api.CreateLogRequest {
	return api.CreateLogRequest{
		Date:             r.Date,
		WeightKg:         r.WeightKg,
		SleepHours:       r.SleepHours,
		HRV:              r.HRV,
		RestingHeartRate: r.RestingHeartRate,
		BodyFatPct:       r.BodyFatPct,
		PlannedTraining:  plannedToWire(r.PlannedTraining),
	}
}

func plannedToWire(sessions []PlannedSession) []api.TrainingSession {
	wire := make([]api.TrainingSession, 0, len(sessions))
	for _, s := range sessions {
		wire = append(wire, api.TrainingSession{
			Type:        s.Type,
			DurationMin: s.DurationMin,
			Notes:       s.Notes,
		})
	}
	return wire
}

// actualToWire strips both ClientID and the server-assigned SessionOrder.
func actualToWire(sessions []ActualSession) []api.ActualTrainingWrite {
	wire := make([]api.ActualTrainingWrite, 0, len(sessions))
	for _, s := range sessions {
		wire = append(wire, api.ActualTrainingWrite{
			Type:               s.Type,
			DurationMin:        s.DurationMin,
			Notes:              s.Notes,
			PerceivedIntensity: s.PerceivedIntensity,
		})
	}
	return wire
}

// fromWire maps a backend log into the display model, assigning fresh
// client IDs to every session.
func fromWire(wireLog *api.DailyLog) *DailyLog {
	if wireLog == nil {
		return nil
	}

	dailyLog := &DailyLog{
		ID:               wireLog.ID,
		Date:             wireLog.Date,
		WeightKg:         wireLog.WeightKg,
		SleepHours:       wireLog.SleepHours,
		HRV:              wireLog.HRV,
		RestingHeartRate: wireLog.RestingHeartRate,
		BodyFatPct:       wireLog.BodyFatPct,
		Targets:          wireLog.Targets,
		TDEE:             wireLog.TDEE,
		RecoveryScore:    wireLog.RecoveryScore,
	}

	for _, s := range wireLog.PlannedTraining {
		dailyLog.PlannedTraining = append(dailyLog.PlannedTraining, PlannedSession{
			ClientID:    uuid.NewString(),
			Type:        s.Type,
			DurationMin: s.DurationMin,
			Notes:       s.Notes,
		})
	}
	for _, s := range wireLog.ActualTraining {
		dailyLog.ActualTraining = append(dailyLog.ActualTraining, ActualSession{
			ClientID:           uuid.NewString(),
			Type:               s.Type,
			DurationMin:        s.DurationMin,
			Notes:              s.Notes,
			PerceivedIntensity: s.PerceivedIntensity,
			SessionOrder:       s.SessionOrder,
		})
	}

	return dailyLog
}
