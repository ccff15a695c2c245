// Package util provides small supporting pieces shared across the engine.
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats snapshots time and memory at the start of an engine phase so the
// cost of enrichment, joining and assembly over large sheets is visible at
// debug level.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Log reports the elapsed time, allocation and row throughput of a phase
// since this snapshot was taken.
func (p *PerfStats) Log(phase string, rows int) {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)
	alloc := (m.TotalAlloc - p.startMem) / 1024 / 1024
	gcs := m.NumGC - p.startGc
	exectime := time.Since(p.startTime).Seconds()

	log.Debugf("%s took %0.3fs over %d rows using %v Mb (%v GC events)", phase, exectime, rows, alloc, gcs)
}
