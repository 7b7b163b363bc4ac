package domain

import "time"

// UserProfile is the backend's canonical view of an account. It is
// replaced wholesale on every fetch and never edited in place.
type UserProfile struct {
	ExternalID       string    `json:"x_id"`
	Handle           string    `json:"username"`
	AutomationActive bool      `json:"active"`
	NextPostAt       time.Time `json:"next_post_at"` // advisory, display only
	CreatedAt        time.Time `json:"created_at"`
}

// SettingsDraft is the session-local, user-editable mirror of the
// backend-held settings.
type SettingsDraft struct {
	AutomationActive bool      `json:"active"`
	Frequency        Frequency `json:"frequency"`
}

// NewDraft seeds a draft from a freshly fetched profile.
// Frequency has no server baseline and starts at the default.
func NewDraft(p UserProfile) SettingsDraft {
	return SettingsDraft{
		AutomationActive: p.AutomationActive,
		Frequency:        DefaultFrequency,
	}
}

// StatusLabel is the text shown next to the automation indicator.
func (d SettingsDraft) StatusLabel() string {
	if d.AutomationActive {
		return "Active"
	}
	return "Inactive"
}
