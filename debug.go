package gallery

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-tick timing and node metrics.
// Only populated when Surface.debug is true.
type debugStats struct {
	tickTime  time.Duration
	events    int
	nodes     int
	onscreen  int
	active    int
	projected int
	hovered   int
}

// collectNodeStats counts node states after a tick.
func (s *Surface) collectNodeStats() {
	s.stats.nodes = len(s.nodes)
	for _, n := range s.nodes {
		if n.IsOnscreen() {
			s.stats.onscreen++
		}
		if n.IsActive() {
			s.stats.active++
		}
		if n.CornersOK() {
			s.stats.projected++
		}
		if n.IsHover() {
			s.stats.hovered++
		}
		if n.anchor.Ready() {
			n.pendingTicks = 0
		} else {
			n.pendingTicks++
			debugCheckPending(n, n.pendingTicks)
		}
	}
}

// debugLog prints tick stats to stderr.
func (s *Surface) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[gallery] tick: %v | events: %d | dropped: %d\n",
		stats.tickTime, stats.events, s.Dropped())
	_, _ = fmt.Fprintf(os.Stderr,
		"[gallery] nodes: %d | onscreen: %d | active: %d | projected: %d | hovered: %d\n",
		stats.nodes, stats.onscreen, stats.active, stats.projected, stats.hovered)
}

// debugCheckPending warns when an anchor stays without corners, which usually
// means the board size never arrived.
const debugPendingTicks = 600

func debugCheckPending(n *InteractionNode, ticks int) {
	if ticks == debugPendingTicks {
		_, _ = fmt.Fprintf(os.Stderr, "[gallery] warning: node %d (%q) has no corners after %d ticks\n",
			n.ID, n.Label, ticks)
	}
}
