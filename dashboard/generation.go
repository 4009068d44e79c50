package dashboard

import "sync/atomic"

// generation hands out tokens for a view's requests. Only the response
// holding the latest token may be applied.
type generation struct {
	seq atomic.Uint64
}

func (g *generation) next() uint64 { return g.seq.Add(1) }

func (g *generation) current(tok uint64) bool { return g.seq.Load() == tok }
