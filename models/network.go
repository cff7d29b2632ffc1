package models

import "time"

// ConnectionType is the physical link the device is currently on.
type ConnectionType string

const (
	ConnectionWiFi     ConnectionType = "wifi"
	ConnectionCellular ConnectionType = "cellular"
	ConnectionEthernet ConnectionType = "ethernet"
	ConnectionNone     ConnectionType = "none"
)

// SpeedCategory buckets a measured download speed.
type SpeedCategory string

const (
	SpeedSlow    SpeedCategory = "slow"
	SpeedMedium  SpeedCategory = "medium"
	SpeedFast    SpeedCategory = "fast"
	SpeedUnknown SpeedCategory = "unknown"
)

// NetworkQuality holds the numeric measurements of one connectivity probe.
// It is ephemeral and never persisted.
type NetworkQuality struct {
	DownloadMbps      float64   `json:"download_mbps"`
	UploadMbps        float64   `json:"upload_mbps"`
	LatencyMs         float64   `json:"latency_ms"`
	PacketLossPct     float64   `json:"packet_loss_pct"`
	SignalStrengthPct float64   `json:"signal_strength_pct"`
	MeasuredAt        time.Time `json:"measured_at"`
}

// Connectivity describes the link state reported by the platform, independent
// of measured quality.
type Connectivity struct {
	IsConnected         bool           `json:"is_connected"`
	IsInternetReachable bool           `json:"is_internet_reachable"`
	Type                ConnectionType `json:"type"`
	IsMetered           bool           `json:"is_metered"`
}

// NetworkStatus is the derived categorical view exposed to consumers. It is
// recomputed on every connectivity change and periodic probe.
type NetworkStatus struct {
	IsConnected      bool          `json:"is_connected"`
	ConnectionSpeed  SpeedCategory `json:"connection_speed"`
	CanSync          bool          `json:"can_sync"`
	ShouldSyncImages bool          `json:"should_sync_images"`
	StabilityScore   int           `json:"stability_score"`
}
