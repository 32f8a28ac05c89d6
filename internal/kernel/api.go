package kernel

import "github.com/dbehnke/dash7kernel/internal/dllcomm"

// SessionTemplate is the caller-supplied shape for a new dialog: which
// channel to use, how long the session may wait before eviction, and
// the subnet it should be filtered against.
type SessionTemplate struct {
	Channel uint8
	Wait    uint16
	Subnet  uint8
}

// NewSession pushes a fresh request-TX session and returns its dialog
// ID, or 0 if the stack was full and Wait was non-zero (not an ad-hoc
// session, so it does not evict).
func (k *Kernel) NewSession(tmpl SessionTemplate) uint16 {
	sess := k.Stack.New(tmpl.Wait, dllcomm.InitState(dllcomm.DialogReqTx), tmpl.Channel)
	if sess == nil {
		return 0
	}
	sess.Subnet = tmpl.Subnet
	k.dialogSeq++
	sess.DialogID = k.dialogSeq
	return sess.DialogID
}

// OpenRequest stages routing context for the current top session ahead
// of a foreground transmit. A broadcast address (bit 6 set) carries no
// routing to copy, but the request itself is still valid.
func (k *Kernel) OpenRequest(addr uint8, routing []byte) bool {
	if addr&0x40 == 0 {
		copy(k.comm.Scratch[:], routing)
	}
	return true
}

// CloseRequest finalizes the current outgoing request. Footer
// construction is a network-layer concern outside this package; the
// call exists so callers can express intent symmetrically with
// OpenRequest.
func (k *Kernel) CloseRequest() bool {
	return k.Stack.Top() != nil
}

// StartDialog clears the mutex and silences the radio so a fresh
// dialog can be armed from a known state, always succeeding.
func (k *Kernel) StartDialog() int32 {
	k.Mutex = dllcomm.Mutex{}
	k.Radio.Kill()
	k.RFA.Reset()
	return 1
}

// StartFlood arms a background flood transmit for duration ticks and
// returns the tick budget consumed. duration == 0 is equivalent to
// StartDialog.
func (k *Kernel) StartFlood(duration uint16) int32 {
	if duration == 0 {
		return k.StartDialog()
	}
	k.comm.Tc = int32(duration)
	k.initBackgroundTx()
	return int32(duration)
}

// QueueExternal enqueues a callback to run on a future External task,
// the lowest-priority slot above pure Idle.
func (k *Kernel) QueueExternal(fn func(*Kernel)) {
	k.externalQueue = append(k.externalQueue, fn)
}
