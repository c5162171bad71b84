package frame

import (
	"context"
	"sync"
)

// Transform derives a new Frame from f. Implementations must not mutate f.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Gap records rows a transform could not fill: a data-quality signal, not a failure.
type Gap struct {
	Column string `json:"column"`
	Group  string `json:"group,omitempty"`
	Rows   int    `json:"rows"`
	Reason string `json:"reason"`
}

// Gap reasons.
const (
	ReasonEmptyGroup = "empty_group"
	ReasonMissingKey = "missing_key"
)

// Notes collects gaps raised while a transform runs.
type Notes struct {
	mu   sync.Mutex
	gaps []Gap
}

func (n *Notes) Add(g Gap) {
	n.mu.Lock()
	n.gaps = append(n.gaps, g)
	n.mu.Unlock()
}

// Drain returns the collected gaps and resets the collector.
func (n *Notes) Drain() []Gap {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.gaps
	n.gaps = nil
	return out
}

type notesKey struct{}

// WithNotes attaches n to ctx so transforms can record gaps.
func WithNotes(ctx context.Context, n *Notes) context.Context {
	return context.WithValue(ctx, notesKey{}, n)
}

// RecordGap adds g to the Notes carried by ctx, if any.
func RecordGap(ctx context.Context, g Gap) {
	if n, ok := ctx.Value(notesKey{}).(*Notes); ok && n != nil {
		n.Add(g)
	}
}
