package db

import "testing"

func TestPoolStats_Saturated(t *testing.T) {
	tests := []struct {
		name      string
		stats     PoolStats
		saturated bool
	}{
		{"idle pool", PoolStats{AcquiredConns: 0, MaxConns: 20}, false},
		{"partially used", PoolStats{AcquiredConns: 12, MaxConns: 20}, false},
		{"every conn checked out", PoolStats{AcquiredConns: 20, MaxConns: 20}, true},
		{"zero max means unknown", PoolStats{AcquiredConns: 0, MaxConns: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Saturated(); got != tt.saturated {
				t.Errorf("Saturated() = %v, want %v", got, tt.saturated)
			}
		})
	}
}
