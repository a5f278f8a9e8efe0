// Package debugstats serves a live CPU/heap/goroutine dashboard for a
// running console over HTTP, via go-echarts/statsview -- a dependency
// the teacher repo lists but, per its own statsview.Available() guard,
// only ever wires up behind a flag most builds leave off. This package
// gives that same dependency a real, always-compiled call site, gated
// the same way behind an explicit -statsview flag in cmd/dscore.
package debugstats

import (
	"github.com/go-echarts/statsview"
	"github.com/kaedeo/dscore/hardware"
)

// Stats owns the statsview viewer for one Console. The dashboard shows
// only the Go runtime counters statsview samples out of the box; the
// scheduler's tick counter is neither plotted nor logged.
type Stats struct {
	console *hardware.Console
	viewer  *statsview.Viewer
}

// New prepares (but does not start) a dashboard for console.
func New(console *hardware.Console) *Stats {
	return &Stats{console: console}
}

// Serve starts the dashboard's HTTP listener on addr in the background
// and returns immediately.
func (s *Stats) Serve(addr string) {
	s.viewer = statsview.New(statsview.WithAddr(addr))
	go s.viewer.Start()
}
