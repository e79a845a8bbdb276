package state

import (
	"fmt"
	"time"
)

// Phase is the load state of a screen resource.
type Phase uint8

const (
	PhaseLoading Phase = iota + 1
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Guard names an in-flight mutation kind. At most one mutation of each
// kind runs per resource.
type Guard uint8

const (
	GuardSubmit Guard = iota + 1
	GuardDelete
)

func (g Guard) String() string {
	switch g {
	case GuardSubmit:
		return "submit"
	case GuardDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Token identifies the request that produced a result. Results carrying a
// token that is no longer current are discarded.
type Token struct {
	epoch uint64
	seq   uint64
	guard Guard
}

// tracker holds the bookkeeping shared by Collection and Value. Callers
// hold the owning mutex.
type tracker struct {
	phase   Phase
	err     error
	updated time.Time

	epoch   uint64
	loadSeq uint64
	nextSeq uint64
	guards  map[Guard]uint64
}

func (t *tracker) begin() Token {
	t.nextSeq++
	t.loadSeq = t.nextSeq
	t.phase = PhaseLoading
	t.err = nil
	return Token{epoch: t.epoch, seq: t.loadSeq}
}

func (t *tracker) currentLoad(tok Token) bool {
	return tok.guard == 0 && tok.epoch == t.epoch && tok.seq == t.loadSeq && t.phase == PhaseLoading
}

func (t *tracker) resolve() {
	t.phase = PhaseReady
	t.err = nil
	t.updated = time.Now()
}

func (t *tracker) fail(err error) {
	if err == nil {
		err = fmt.Errorf("load failed")
	}
	t.phase = PhaseError
	t.err = err
	t.updated = time.Now()
}

func (t *tracker) startMutation(g Guard) (Token, bool) {
	if t.guards == nil {
		t.guards = make(map[Guard]uint64)
	}
	if _, busy := t.guards[g]; busy {
		return Token{}, false
	}
	t.nextSeq++
	t.guards[g] = t.nextSeq
	return Token{epoch: t.epoch, seq: t.nextSeq, guard: g}, true
}

func (t *tracker) currentMutation(tok Token) bool {
	if tok.guard == 0 || tok.epoch != t.epoch {
		return false
	}
	seq, ok := t.guards[tok.guard]
	return ok && seq == tok.seq
}

func (t *tracker) settle(tok Token) bool {
	if !t.currentMutation(tok) {
		return false
	}
	delete(t.guards, tok.guard)
	return true
}

func (t *tracker) busy(g Guard) bool {
	_, ok := t.guards[g]
	return ok
}

func (t *tracker) deactivate() {
	t.epoch++
	t.guards = nil
	if t.phase == PhaseLoading {
		t.phase = 0
	}
}
