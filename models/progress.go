package models

// SyncProgress reports the state of one sync pass. It is owned exclusively by
// the sync orchestrator for the duration of the pass and reset at pass start.
type SyncProgress struct {
	Total            int     `json:"total"`
	Completed        int     `json:"completed"`
	Failed           int     `json:"failed"`
	CurrentItem      string  `json:"current_item"`
	Percentage       float64 `json:"percentage"`
	EstimatedSeconds float64 `json:"estimated_seconds_remaining"`
}
