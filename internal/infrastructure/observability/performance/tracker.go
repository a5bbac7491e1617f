package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker
	mu      sync.RWMutex
	started time.Time
	config  *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers int `json:"maxMarkers"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers: 10000,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates and registers a new marker for an operation
func (t *Tracker) StartOperation(operation, storeID string) *Marker {
	marker := &Marker{
		Operation: operation,
		StoreID:   storeID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.markers) >= t.config.MaxMarkers {
		t.evictOldestLocked()
	}

	key := fmt.Sprintf("%s:%s:%d", operation, storeID, marker.StartTime.UnixNano())
	t.markers[key] = marker

	return marker
}

// evictOldestLocked drops the oldest completed marker. Caller holds mu.
func (t *Tracker) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	for key, marker := range t.markers {
		if !marker.Completed {
			continue
		}
		if oldestKey == "" || marker.StartTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = marker.StartTime
		}
	}
	if oldestKey != "" {
		delete(t.markers, oldestKey)
	}
}

// Stats summarizes tracked operations per store.
type Stats struct {
	TotalOperations int           `json:"totalOperations"`
	FailedCount     int           `json:"failedCount"`
	AverageDuration time.Duration `json:"averageDuration"`
	Uptime          time.Duration `json:"uptime"`
}

// GetStats aggregates completed markers, optionally filtered by store.
func (t *Tracker) GetStats(storeID string) *Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := &Stats{Uptime: time.Since(t.started)}
	var total time.Duration
	for _, marker := range t.markers {
		if !marker.Completed {
			continue
		}
		if storeID != "" && marker.StoreID != storeID {
			continue
		}
		stats.TotalOperations++
		total += marker.Duration
		if !marker.Success {
			stats.FailedCount++
		}
	}
	if stats.TotalOperations > 0 {
		stats.AverageDuration = total / time.Duration(stats.TotalOperations)
	}
	return stats
}
