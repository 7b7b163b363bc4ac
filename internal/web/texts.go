package web

import (
	"time"

	"github.com/ykvlv/autopilot-dashboard/internal/activation"
	"github.com/ykvlv/autopilot-dashboard/internal/domain"
)

// UI texts in English
const (
	brandName      = "AlphaBot"
	tagline        = "1 tweet/day. Your voice. Zero effort."
	activatedTitle = "AlphaBot Activated!"
	notFoundText   = "User not found"
	noNextPost     = "—"
)

// page carries what every template needs.
type page struct {
	Brand string
	Theme string
}

type landingView struct {
	page
	Tagline        string
	ActivatedTitle string
	Result         activation.Result
}

type dashboardView struct {
	page
	Handle      string
	Draft       domain.SettingsDraft
	Frequencies []domain.Frequency
	NextPost    string
	PollMillis  int64
}

type notFoundView struct {
	page
	NotFound string
}

// draftResponse is the JSON shape of GET /dashboard/state and intent replies.
type draftResponse struct {
	Handle    string `json:"handle"`
	Active    bool   `json:"active"`
	Status    string `json:"status"`
	Frequency int    `json:"frequency"`
}

func newDraftResponse(handle string, d domain.SettingsDraft) draftResponse {
	return draftResponse{
		Handle:    handle,
		Active:    d.AutomationActive,
		Status:    d.StatusLabel(),
		Frequency: int(d.Frequency),
	}
}

// failureResponse is one entry of GET /dashboard/failures.
type failureResponse struct {
	Kind    string    `json:"kind"`
	Setting string    `json:"setting,omitempty"`
	Detail  string    `json:"detail"`
	At      time.Time `json:"at"`
}

type errorResponse struct {
	Error string `json:"error"`
}
