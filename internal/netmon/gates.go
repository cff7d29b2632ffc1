package netmon

import "github.com/furkeep/pawsync/models"

// Sync gate thresholds.
const (
	minSyncDownloadMbps  = 0.5
	maxSyncLatencyMs     = 1000
	minSyncSignalPct     = 30
	maxSyncPacketLossPct = 50

	minImageDownloadMbps = 2
	maxImageLatencyMs    = 500
)

// Speed classification thresholds in Mbps.
const (
	slowSpeedCeilingMbps = 1
	fastSpeedFloorMbps   = 5
)

// Classify buckets a measured download speed: <1 Mbps is slow, 1-5 Mbps is
// medium, >5 Mbps is fast, 0 is unknown.
func Classify(q models.NetworkQuality) models.SpeedCategory {
	switch {
	case q.DownloadMbps == 0:
		return models.SpeedUnknown
	case q.DownloadMbps < slowSpeedCeilingMbps:
		return models.SpeedSlow
	case q.DownloadMbps > fastSpeedFloorMbps:
		return models.SpeedFast
	default:
		return models.SpeedMedium
	}
}

// CanSync reports whether sync operations are safe to attempt on the given
// measurement. It is a pure function of its arguments and never blocks.
func CanSync(q models.NetworkQuality, conn models.Connectivity) bool {
	return conn.IsConnected &&
		conn.IsInternetReachable &&
		q.DownloadMbps >= minSyncDownloadMbps &&
		q.LatencyMs <= maxSyncLatencyMs &&
		q.SignalStrengthPct >= minSyncSignalPct &&
		q.PacketLossPct < maxSyncPacketLossPct
}

// ShouldSyncImages reports whether bandwidth-heavy image sync is advisable:
// CanSync plus either WiFi, or a fast low-latency unmetered link.
func ShouldSyncImages(q models.NetworkQuality, conn models.Connectivity) bool {
	if !CanSync(q, conn) {
		return false
	}
	if conn.Type == models.ConnectionWiFi {
		return true
	}
	return q.DownloadMbps >= minImageDownloadMbps &&
		q.LatencyMs <= maxImageLatencyMs &&
		!conn.IsMetered
}
