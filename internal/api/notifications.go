package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/fluxtrack/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// FluxNotification is the weekly strategy advisory computed server-side:
// a proposed change of the daily energy target, with the reasoning.
type FluxNotification struct {
	ID           string `json:"id"`
	PreviousTDEE int    `json:"previousTdee"`
	NewTDEE      int    `json:"newTdee"`
	DeltaKcal    int    `json:"deltaKcal"`
	Reason       string `json:"reason"`
}

// GetPendingNotification returns the pending weekly advisory, or nil
// when there is none. "None" can come back as an empty/null body or as
// a 404, depending on backend version; both mean the same here.
func (c *Client) GetPendingNotification(ctx context.Context) (_ *FluxNotification, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.getPendingNotification")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var notification *FluxNotification
	if err := c.request(ctx, http.MethodGet, "/notifications/pending", nil, &notification); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return notification, nil
}

// DismissNotification marks the advisory as seen. Dismissal is
// idempotent server-side.
func (c *Client) DismissNotification(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "api.dismissNotification")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("notification.id", id))

	path := fmt.Sprintf("/notifications/%s/dismiss", id)
	return c.request(ctx, http.MethodPost, path, nil, nil)
}
