package radio

import "sync"

// Simulated is an in-memory Driver used by tests and the CLI demo. It
// records the most recently armed callback so a test (standing in for
// hardware) can fire it explicitly, and it lets callers script the
// sequence of TxCSMA results a real clear-channel assessment would
// otherwise produce.
type Simulated struct {
	mu sync.Mutex

	pktDurationPerByte int32
	defaultTgd         int32

	pendingBScan RxCallback
	pendingFrx   FrxCallback
	pendingFtx   FtxCallback
	pendingBtx   BtxCallback

	csmaResults []CSMACode
	killed      bool
	floodActive bool
}

// NewSimulated returns a Simulated driver with the given per-byte
// on-air duration and default guard time, both in ticks.
func NewSimulated(pktDurationPerByte, defaultTgd int32) *Simulated {
	return &Simulated{pktDurationPerByte: pktDurationPerByte, defaultTgd: defaultTgd}
}

func (s *Simulated) RxInitBF(channel uint8, cb RxCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingBScan = cb
	return nil
}

func (s *Simulated) RxInitFF(channel uint8, estFrames int, cb FrxCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingFrx = cb
	return nil
}

func (s *Simulated) RxTimeoutISR() {
	s.mu.Lock()
	cb := s.pendingFrx
	s.mu.Unlock()
	if cb != nil {
		cb(-1, 0)
	}
}

func (s *Simulated) ReenterRx(mode int) {}

func (s *Simulated) TxInitBF(cb BtxCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingBtx = cb
	s.floodActive = true
	return nil
}

func (s *Simulated) TxInitFF(estFrames int, cb FtxCallback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingFtx = cb
	return nil
}

// TxCSMA pops the next scripted result, defaulting to Success once the
// script is exhausted.
func (s *Simulated) TxCSMA() CSMACode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.csmaResults) == 0 {
		return Success
	}
	next := s.csmaResults[0]
	s.csmaResults = s.csmaResults[1:]
	return next
}

// ScriptCSMA queues the sequence of results TxCSMA will return.
func (s *Simulated) ScriptCSMA(results ...CSMACode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csmaResults = append(s.csmaResults, results...)
}

func (s *Simulated) PrepResend() {}

func (s *Simulated) TxStopFlood() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floodActive = false
}

func (s *Simulated) PktDuration(bytes int) int32 { return int32(bytes) * s.pktDurationPerByte }

func (s *Simulated) DefaultTgd(channel uint8) int32 { return s.defaultTgd }

// Kill records that the radio was silenced. It does not invoke any
// pending callback.
func (s *Simulated) Kill() {
	s.mu.Lock()
	s.killed = true
	s.mu.Unlock()
}

func (s *Simulated) Killed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.killed
}

// FireBScan invokes the callback armed by the most recent RxInitBF.
func (s *Simulated) FireBScan(scode, fcode int8) {
	s.mu.Lock()
	cb := s.pendingBScan
	s.mu.Unlock()
	if cb != nil {
		cb(scode, fcode)
	}
}

// FireFrx invokes the callback armed by the most recent RxInitFF.
func (s *Simulated) FireFrx(pcode, fcode int8) {
	s.mu.Lock()
	cb := s.pendingFrx
	s.mu.Unlock()
	if cb != nil {
		cb(pcode, fcode)
	}
}

// FireFtx invokes the callback armed by the most recent TxInitFF.
func (s *Simulated) FireFtx(pcode int8, scratch []byte) {
	s.mu.Lock()
	cb := s.pendingFtx
	s.mu.Unlock()
	if cb != nil {
		cb(pcode, scratch)
	}
}

// FireBtx invokes the callback armed by the most recent TxInitBF.
func (s *Simulated) FireBtx(flcode int8, scratch []byte) {
	s.mu.Lock()
	cb := s.pendingBtx
	s.mu.Unlock()
	if cb != nil {
		cb(flcode, scratch)
	}
}
