package game

import (
	"time"
)

const perfLogInterval = 5 * time.Second

// maybeLogPerfAlerts logs the monitor's alerts at most once per interval.
func (gl *GameLoop) maybeLogPerfAlerts() {
	now := time.Now()
	if !gl.game.perfLastAlertLog.IsZero() && now.Sub(gl.game.perfLastAlertLog) < perfLogInterval {
		return
	}

	alerts := gl.game.monitor.CheckPerformanceAlerts()
	if len(alerts) == 0 {
		return
	}
	gl.game.perfLastAlertLog = now
	for _, a := range alerts {
		gl.game.logger.Printf("Warning: perf %s: %s (%.1f, threshold %.1f)", a.Type, a.Message, a.Value, a.Threshold)
	}
}
