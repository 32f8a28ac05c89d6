// Package radio defines the radio driver contract the kernel depends on
// (§6): arm RX/TX, drive CSMA, compute packet timing, and kill the
// radio. A real driver talks to hardware; this package also ships a
// simulated driver used by tests and the CLI demo.
package radio

// RxCallback matches rfevt_bscan(scode, fcode).
type RxCallback func(scode int8, fcode int8)

// FrxCallback matches rfevt_frx(pcode, fcode).
type FrxCallback func(pcode int8, fcode int8)

// FtxCallback matches rfevt_ftx(pcode, scratch).
type FtxCallback func(pcode int8, scratch []byte)

// BtxCallback matches rfevt_btx(flcode, scratch).
type BtxCallback func(flcode int8, scratch []byte)

// CSMACode is the return value of TxCSMA.
type CSMACode int32

const (
	// ErrBadChannel: the requested channel is not usable.
	ErrBadChannel CSMACode = -3
	// ErrCCAFail: clear-channel assessment failed this attempt.
	ErrCCAFail CSMACode = -2
	// Success: CSMA cleared, begin the data transfer.
	Success CSMACode = -1
	// Any value >= 0 is a wait-time in ticks before retrying.
)

// Driver is the radio hardware abstraction the event manager and radio
// I/O state machine call into. Every method must return promptly:
// completion is always reported later through the callback passed to
// the matching Init call, never through the Init call's return value.
type Driver interface {
	// RxInitBF arms a background-frame receive on channel; cb fires when
	// a frame (or a CRC/init failure) completes.
	RxInitBF(channel uint8, cb RxCallback) error
	// RxInitFF arms a foreground-frame receive on channel, estimating
	// estFrames frames in a datastream; cb fires per frame.
	RxInitFF(channel uint8, estFrames int, cb FrxCallback) error
	// RxTimeoutISR signals that the software RX timeout has elapsed.
	RxTimeoutISR()
	// ReenterRx re-arms RX without unwinding back to the kernel, used
	// mid-datastream and after a bad-CRC/response frame.
	ReenterRx(mode int)
	// TxInitBF arms a background-flood transmit; cb fires per flood
	// frame boundary and at flood completion.
	TxInitBF(cb BtxCallback) error
	// TxInitFF arms a foreground transmit, estimating estFrames frames;
	// cb fires on completion.
	TxInitFF(estFrames int, cb FtxCallback) error
	// TxCSMA attempts one clear-channel assessment / transmission step.
	TxCSMA() CSMACode
	// PrepResend arms an immediate resend with CSMA disabled.
	PrepResend()
	// TxStopFlood terminates an in-progress flood transmission.
	TxStopFlood()
	// PktDuration returns the on-air ticks for a frame of the given byte
	// length.
	PktDuration(bytes int) int32
	// DefaultTgd returns the default guard time for the given channel.
	DefaultTgd(channel uint8) int32
	// Kill immediately silences the radio; a driver must still deliver a
	// terminal callback with an error code so the state machine unwinds.
	Kill()
}
