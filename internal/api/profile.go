package api

import (
	"context"
	"net/http"

	"github.com/2beens/fluxtrack/internal/telemetry/tracing"
)

type Profile struct {
	Sex            string  `json:"sex"`
	Age            int     `json:"age"`
	HeightCm       float64 `json:"heightCm"`
	WeightKg       float64 `json:"weightKg"`
	ActivityLevel  string  `json:"activityLevel"`
	GoalWeightKg   float64 `json:"goalWeightKg,omitempty"`
	PreferredUnits string  `json:"preferredUnits,omitempty"`
}

// GetProfile returns the stored user profile, or nil when no profile
// has been saved yet. The profile has no store of its own, so the
// 404-means-empty policy sits here.
func (c *Client) GetProfile(ctx context.Context) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.getProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var profile Profile
	if err := c.request(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// SaveProfile upserts the user profile and returns the stored version.
func (c *Client) SaveProfile(ctx context.Context, profile Profile) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.saveProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var saved Profile
	if err := c.request(ctx, http.MethodPut, "/profile", profile, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
