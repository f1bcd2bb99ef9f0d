package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmorr/voxtrivia/internal/game"
)

// SnapshotMsg carries a fresh game snapshot into the bubbletea loop.
type SnapshotMsg struct {
	Snapshot game.Snapshot
}

// Relay bridges the game engine's event sink to a bubbletea program. The
// sink can be handed to the engine before the program exists; snapshots
// published before Attach are dropped, which is fine because the engine
// publishes on every transition.
type Relay struct {
	mu      sync.Mutex
	program *tea.Program
}

func NewRelay() *Relay {
	return &Relay{}
}

// Attach connects the running program. Safe to call once the program has
// been constructed.
func (r *Relay) Attach(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// GameChanged implements game.EventSink.
func (r *Relay) GameChanged(s game.Snapshot) {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Send(SnapshotMsg{Snapshot: s})
	}
}
