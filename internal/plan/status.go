package plan

import "github.com/2beens/fluxtrack/internal/api"

// canTransition is the client-side guard of the plan lifecycle: an
// operation that is invalid for the held plan's status is rejected
// locally, before any network call.
func canTransition(status api.PlanStatus, transition string) bool {
	switch transition {
	case "complete", "abandon", "pause", "recalibrate":
		return status == api.PlanStatusActive
	case "resume":
		return status == api.PlanStatusPaused
	default:
		return false
	}
}
