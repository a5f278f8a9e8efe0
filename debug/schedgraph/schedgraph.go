// Package schedgraph renders a snapshot of the scheduler's pending
// event queue as a dot graph, for tracking down why a peripheral's
// event chain stalled or ran away. Grounded on the teacher's own use of
// memviz in its command-line parser tests, the only place in the
// teacher repo that walks a live data structure into a dot file.
package schedgraph

import (
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/kaedeo/dscore/hardware/scheduler"
)

// snapshot is a plain value memviz can walk: the scheduler's own event
// heap holds unexported fields and handler closures memviz can't usefully
// render, so Dump first copies out the part worth looking at (the queue's
// current tick and the kind/count of everything still pending).
type snapshot struct {
	Now     scheduler.Tick
	Pending map[scheduler.Kind]int
}

// Dump writes a dot graph of s's current pending-event snapshot to path.
func Dump(s *scheduler.Scheduler, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snap := snapshot{Now: s.Now(), Pending: map[scheduler.Kind]int{}}
	for _, k := range s.PendingKinds() {
		snap.Pending[k]++
	}

	memviz.Map(f, &snap)
	return nil
}
