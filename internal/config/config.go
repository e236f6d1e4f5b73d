package config

import "sync"

// RuntimeSettings holds values the viewer can change while running
type RuntimeSettings struct {
	mu       sync.RWMutex
	fpsLimit int // 0 means uncapped
	tickRate int // fixed updates per second
}

const (
	minTickRate = 5
	maxTickRate = 240
	maxFPSLimit = 1000
)

var globalRuntimeSettings = &RuntimeSettings{
	fpsLimit: 144,
	tickRate: 60,
}

// GetFPSLimit returns the frame cap, 0 when uncapped
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values disable the cap.
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > maxFPSLimit {
		limit = maxFPSLimit
	}

	globalRuntimeSettings.fpsLimit = limit
}

// GetTickRate returns the fixed update rate in Hz
func GetTickRate() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.tickRate
}

// SetTickRate sets the fixed update rate in Hz
func SetTickRate(hz int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if hz < minTickRate {
		hz = minTickRate
	}
	if hz > maxTickRate {
		hz = maxTickRate
	}

	globalRuntimeSettings.tickRate = hz
}

// Apply copies the render section of a loaded file into the runtime settings.
func Apply(f File) {
	SetTickRate(f.Render.TickRate)
	SetFPSLimit(f.Render.FPSLimit)
}
