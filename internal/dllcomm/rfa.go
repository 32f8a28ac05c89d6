package dllcomm

// RFAEventNo is the radio-activity task currently owning the radio.
type RFAEventNo uint8

const (
	RFAIdle RFAEventNo = iota
	RFABScan
	RFAFScan
	RFABTx
	RFAFTx
	RFABTxFlight
	RFAFTxFlight
)

// InFlight reports whether data is currently transferring (post-CSMA).
func (e RFAEventNo) InFlight() bool { return e >= RFABTxFlight }

// IsRx reports whether the event is one of the two receive states.
func (e RFAEventNo) IsRx() bool { return e == RFABScan || e == RFAFScan }

// RFAEvent tracks the single active radio task and its countdown.
type RFAEvent struct {
	EventNo   RFAEventNo
	NextEvent int32
}

func (r *RFAEvent) Clock(elapsed int32) { r.NextEvent -= elapsed }

func (r *RFAEvent) Reset() {
	r.EventNo = RFAIdle
	r.NextEvent = 0
}

// RFATerminateReason names why the RFA terminate hook fired, mirroring
// the task codes the source kernel passes at each rfevt_* call site.
type RFATerminateReason uint8

const (
	TerminateBScan RFATerminateReason = iota + 1
	TerminateFScan
	TerminateCSMAFail
	TerminateBTx
	TerminateFTx
)

// MutexBit is one bit of the non-blocking system mutex.
type MutexBit uint8

const (
	MutexRadioListen MutexBit = 1 << iota
	MutexRadioData
	MutexProcessing
)

// Mutex is a bitfield busy indicator, not a lock: only the main loop and
// the radio driver's ISR-context callbacks touch it, and only via
// single-bit set/clear.
type Mutex struct {
	bits MutexBit
}

func (m *Mutex) Set(b MutexBit)     { m.bits |= b }
func (m *Mutex) Clear(b MutexBit)   { m.bits &^= b }
func (m Mutex) Has(b MutexBit) bool { return m.bits&b != 0 }
func (m Mutex) IsZero() bool        { return m.bits == 0 }

// PopCount returns the number of set bits, used by the "sum(mutex bits
// set) <= 3" testable property.
func (m Mutex) PopCount() int {
	n := 0
	for b := m.bits; b != 0; b &= b - 1 {
		n++
	}
	return n
}
