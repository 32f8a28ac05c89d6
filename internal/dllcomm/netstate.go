// Package dllcomm holds the per-dialog MAC parameters and session status
// bits shared between the event manager, the radio I/O state machine, and
// the CSMA-CA flow control code. It replaces the source kernel's packed
// netstate bitfield with a tagged variant, per the redesign in the design
// notes: a small dialog-direction enum plus an independent flag set.
package dllcomm

// DialogState is the direction a session's MAC dialog is currently
// running: which end is transmitting and whether it's the request or
// response leg.
type DialogState uint8

const (
	// DialogReqTx: this device is about to transmit a request (foreground TX).
	DialogReqTx DialogState = iota
	// DialogReqRx: this device is listening for a response (foreground scan).
	DialogReqRx
	// DialogRespTx: this device is about to transmit a response or flood (background TX).
	DialogRespTx
	// DialogRespRx: this device is listening for a request (background scan).
	DialogRespRx
)

func (d DialogState) String() string {
	switch d {
	case DialogReqTx:
		return "ReqTx"
	case DialogReqRx:
		return "ReqRx"
	case DialogRespTx:
		return "RespTx"
	case DialogRespRx:
		return "RespRx"
	default:
		return "Unknown"
	}
}

// Toggle swaps ReqTx<->RespRx and ReqRx<->RespTx, the direction flip used
// when a foreground listen times out under A2P contention.
func (d DialogState) Toggle() DialogState {
	return 3 - d
}

// NetFlag is an orthogonal status bit layered on top of DialogState.
type NetFlag uint8

const (
	FlagInit NetFlag = 1 << iota
	FlagConnected
	FlagHold
	FlagFirstRx
	FlagDsDialog
	FlagScrap
)

// NetState is a session's full MAC status: a dialog direction plus a set
// of independent flags.
type NetState struct {
	Dialog DialogState
	Flags  NetFlag
}

func (n NetState) Has(f NetFlag) bool  { return n.Flags&f != 0 }
func (n *NetState) Set(f NetFlag)      { n.Flags |= f }
func (n *NetState) Clear(f NetFlag)    { n.Flags &^= f }
func (n NetState) IsScrap() bool       { return n.Has(FlagScrap) }
func (n NetState) IsConnected() bool   { return n.Has(FlagConnected) }
func (n NetState) IsDatastream() bool  { return n.Has(FlagDsDialog) }

// InitState builds the netstate for a fresh session in the given dialog
// direction, with FlagInit and the given extra flags applied (e.g.
// FlagFirstRx on a retry).
func InitState(dialog DialogState, extra ...NetFlag) NetState {
	ns := NetState{Dialog: dialog, Flags: FlagInit}
	for _, f := range extra {
		ns.Flags |= f
	}
	return ns
}

// ScrapState marks a session for discard at the next session-task dispatch.
func ScrapState() NetState {
	return NetState{Flags: FlagScrap}
}
