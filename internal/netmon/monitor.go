// SPDX-License-Identifier: Apache-2.0

// Package netmon measures connectivity quality and gates sync operations on
// it.
//
// The [Monitor] reacts to platform connectivity-change events (fed in via
// [Monitor.SetConnectivity]) and runs a periodic round-trip probe. Gate
// checks ([CanSync], [ShouldSyncImages]) are pure functions of the latest
// measurement and never block. A probe that fails or is cancelled fails
// closed: zero throughput, unreachable latency, zero signal.
package netmon

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/furkeep/pawsync/internal/logger"
	"github.com/furkeep/pawsync/models"
)

// historyCap bounds the snapshot ring used for the stability score.
const historyCap = 10

// stabilityWindow is the number of recent samples inspected for
// connected/disconnected flips.
const stabilityWindow = 5

// unreachableLatencyMs is the pessimistic latency reported by a failed probe.
const unreachableLatencyMs = 1_000_000

type snapshot struct {
	Connected bool
	Quality   models.NetworkQuality
	At        time.Time
}

// Config holds Monitor settings.
type Config struct {
	ProbeURL      string
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// SignalFunc supplies platform-reported radio metrics: signal strength in
// percent and packet loss in percent. When nil, a connected link reports
// full signal and zero loss.
type SignalFunc func() (signalPct, packetLossPct float64)

// Monitor measures link quality and exposes gate checks and a stability
// score. It is safe for concurrent use.
type Monitor struct {
	client   *resty.Client
	probeURL string
	interval time.Duration
	signalFn SignalFunc
	logger   *logger.Logger

	mu      sync.RWMutex
	conn    models.Connectivity
	quality models.NetworkQuality
	history []snapshot

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(models.NetworkStatus)

	now func() time.Time
}

// NewMonitor constructs a Monitor. The monitor is passive until Run is
// started or SetConnectivity is called.
func NewMonitor(cfg Config, signalFn SignalFunc, log *logger.Logger) *Monitor {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = 30 * time.Second
	}

	return &Monitor{
		client:   resty.New().SetTimeout(cfg.ProbeTimeout),
		probeURL: cfg.ProbeURL,
		interval: cfg.ProbeInterval,
		signalFn: signalFn,
		logger:   log,
		subs:     make(map[int]func(models.NetworkStatus)),
		now:      time.Now,
	}
}

// Measure performs one bounded round-trip probe and computes latency and an
// approximate throughput. It never returns an error: any transport failure
// or cancellation yields pessimistic fail-closed values instead.
func (m *Monitor) Measure(ctx context.Context) models.NetworkQuality {
	started := m.now()

	resp, err := m.client.R().SetContext(ctx).Get(m.probeURL)
	if err != nil || resp.IsError() {
		m.logger.Debug().
			Err(err).
			Str("func", "Monitor.Measure").
			Msg("probe failed, reporting fail-closed quality")
		return m.failClosed()
	}

	elapsed := m.now().Sub(started)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}

	latencyMs := float64(elapsed) / float64(time.Millisecond)
	// Approximate throughput from the probe body; responses and headers are
	// small, so this underestimates fast links but orders them correctly.
	bits := float64(len(resp.Body())+overheadBytes) * 8
	downloadMbps := bits / (float64(elapsed) / float64(time.Second)) / 1e6

	signal, loss := m.signal()
	return models.NetworkQuality{
		DownloadMbps:      downloadMbps,
		UploadMbps:        downloadMbps / 2,
		LatencyMs:         latencyMs,
		PacketLossPct:     loss,
		SignalStrengthPct: signal,
		MeasuredAt:        m.now(),
	}
}

// overheadBytes accounts for headers and TCP/TLS handshake payload in the
// throughput estimate.
const overheadBytes = 512

func (m *Monitor) failClosed() models.NetworkQuality {
	return models.NetworkQuality{
		DownloadMbps:      0,
		UploadMbps:        0,
		LatencyMs:         unreachableLatencyMs,
		PacketLossPct:     100,
		SignalStrengthPct: 0,
		MeasuredAt:        m.now(),
	}
}

func (m *Monitor) signal() (float64, float64) {
	if m.signalFn != nil {
		return m.signalFn()
	}
	return 100, 0
}

// SetConnectivity feeds a platform connectivity-change event into the
// monitor. The quality is re-probed immediately and subscribers are
// notified with the recomputed status.
func (m *Monitor) SetConnectivity(ctx context.Context, conn models.Connectivity) {
	var quality models.NetworkQuality
	if conn.IsConnected {
		quality = m.Measure(ctx)
	} else {
		quality = m.failClosed()
	}

	m.record(conn, quality)
	m.notify(m.Status())
}

// Run probes periodically until ctx is cancelled. Connectivity-change events
// are handled independently via SetConnectivity.
func (m *Monitor) Run(ctx context.Context) {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			conn := m.Connectivity()
			if !conn.IsConnected {
				continue
			}
			quality := m.Measure(ctx)
			m.record(conn, quality)
			m.notify(m.Status())
		}
	}
}

func (m *Monitor) record(conn models.Connectivity, quality models.NetworkQuality) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conn = conn
	m.quality = quality
	m.history = append(m.history, snapshot{
		Connected: conn.IsConnected,
		Quality:   quality,
		At:        m.now(),
	})
	if len(m.history) > historyCap {
		m.history = m.history[len(m.history)-historyCap:]
	}
}

// Connectivity returns the last reported platform connectivity.
func (m *Monitor) Connectivity() models.Connectivity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// Quality returns the latest measurement.
func (m *Monitor) Quality() models.NetworkQuality {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.quality
}

// Status derives the categorical network view from the latest measurement.
func (m *Monitor) Status() models.NetworkStatus {
	m.mu.RLock()
	conn := m.conn
	quality := m.quality
	m.mu.RUnlock()

	return models.NetworkStatus{
		IsConnected:      conn.IsConnected,
		ConnectionSpeed:  Classify(quality),
		CanSync:          CanSync(quality, conn),
		ShouldSyncImages: ShouldSyncImages(quality, conn),
		StabilityScore:   m.StabilityScore(),
	}
}

// StabilityScore scores link stability from recent history:
// 100 minus 20 per connected/disconnected flip in the last five samples,
// floored at 0.
func (m *Monitor) StabilityScore() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window := m.history
	if len(window) > stabilityWindow {
		window = window[len(window)-stabilityWindow:]
	}

	flips := 0
	for i := 1; i < len(window); i++ {
		if window[i].Connected != window[i-1].Connected {
			flips++
		}
	}

	score := 100 - 20*flips
	if score < 0 {
		score = 0
	}
	return score
}

// Subscribe registers fn to be called with the recomputed status after every
// connectivity change and periodic probe. The returned function removes the
// subscription.
func (m *Monitor) Subscribe(fn func(models.NetworkStatus)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Monitor) notify(status models.NetworkStatus) {
	m.subMu.Lock()
	fns := make([]func(models.NetworkStatus), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}
