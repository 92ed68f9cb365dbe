package asset

import "github.com/iov-one/barter/coin"

// Snapshot holds the state of a set of handles at the time it was taken.
type Snapshot struct {
	saved []savedHandle
}

type savedHandle struct {
	s         *handleState
	amount    coin.Coin
	instances []InstanceID
}

// Checkpoint records the current content of given handles. Nil handles are
// ignored. Call Restore on the result to undo any consumption that happened
// in between, for example when a transaction that received the handles has
// failed.
func Checkpoint(handles ...*Handle) *Snapshot {
	s := &Snapshot{}
	for _, h := range handles {
		if h == nil || h.s == nil {
			continue
		}
		s.saved = append(s.saved, savedHandle{
			s:         h.s,
			amount:    h.s.amount,
			instances: h.s.instances,
		})
	}
	return s
}

// Restore brings all handles back to the recorded content.
func (s *Snapshot) Restore() {
	for _, sv := range s.saved {
		sv.s.amount = sv.amount
		sv.s.instances = sv.instances
	}
}
