package kernel

import (
	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/radio"
)

// executeRadio runs the Radio task: it is only chosen while RFA holds a
// non-idle event, and it either lets a still-pending countdown expire
// naturally, drives one CSMA step, or services an ISR-signalled timeout.
func (k *Kernel) executeRadio() int32 {
	if k.RFA.NextEvent > 0 {
		return k.RFA.NextEvent
	}

	switch k.RFA.EventNo {
	case dllcomm.RFABScan, dllcomm.RFAFScan:
		k.Radio.RxTimeoutISR()
		return 0
	case dllcomm.RFABTx, dllcomm.RFAFTx:
		return k.txCSMAStep()
	default: // in flight: waiting for the driver's completion callback
		return 1
	}
}

func (k *Kernel) initForegroundTx() {
	k.RFA.EventNo = dllcomm.RFAFTx
	// 20 stands in for txq.length until TxQueue exposes the pending
	// frame's actual byte count.
	k.RFA.NextEvent = k.CSMA.Init(k.comm, 20)
	k.comm.Tca = k.comm.Tc
	k.Mutex.Set(dllcomm.MutexRadioListen)
	k.Radio.TxInitFF(1, k.HandleFtx)
}

func (k *Kernel) initBackgroundTx() {
	k.RFA.EventNo = dllcomm.RFABTx
	k.RFA.NextEvent = 0
	k.comm.Tca = k.comm.Tc
	k.Radio.TxInitBF(k.HandleBtx)
}

func (k *Kernel) fscan() {
	top := k.Stack.Top()
	if top == nil {
		return
	}
	k.RFA.EventNo = dllcomm.RFAFScan
	k.RFA.NextEvent = int32(k.comm.RxTimeout)
	k.Radio.RxInitFF(top.Channel, 1, k.HandleFrx)
}

func (k *Kernel) bscan() {
	top := k.Stack.Top()
	if top == nil {
		return
	}
	k.RFA.EventNo = dllcomm.RFABScan
	k.RFA.NextEvent = int32(k.comm.RxTimeout)
	k.Mutex.Set(dllcomm.MutexRadioListen)
	k.Radio.RxInitBF(top.Channel, k.HandleBScan)
}

// txCSMAStep drives one contention step for a TX task: a CCA failure
// reschedules using the flow-control discipline's loop offset; a
// driver wait code (>= 0) reschedules after that many ticks; success
// moves the RFA event into its in-flight variant and marks the radio
// busy transferring data.
func (k *Kernel) txCSMAStep() int32 {
	if k.comm.CSMAExpired() {
		k.Stack.Pop()
		k.RFA.Reset()
		k.hooks.RFATerminate(dllcomm.TerminateCSMAFail)
		return 0
	}

	code := k.Radio.TxCSMA()
	switch {
	case code == radio.ErrCCAFail || code == radio.ErrBadChannel:
		// 20 stands in for txq.length, as above.
		k.RFA.NextEvent = k.CSMA.Loop(k.comm, 20)
		return k.RFA.NextEvent
	case code >= 0:
		k.RFA.NextEvent = int32(code)
		return k.RFA.NextEvent
	default:
		k.Mutex.Set(dllcomm.MutexRadioData)
		k.RFA.EventNo += 2 // RFABTx->RFABTxFlight, RFAFTx->RFAFTxFlight
		k.RFA.NextEvent = k.Radio.PktDuration(20)
		return k.RFA.NextEvent
	}
}

// filterSubnet returns the subnet a received frame is checked against:
// the top session's own subnet when a caller directed it at one via
// NewSession, otherwise the device's configured network subnet.
func (k *Kernel) filterSubnet() uint8 {
	if top := k.Stack.Top(); top != nil && top.Subnet != 0 {
		return top.Subnet
	}
	return k.net.Subnet
}

// HandleBScan is the rfevt_bscan callback: a negative scode with
// redundant attempts remaining re-arms the same background scan; any
// other outcome pops the scan session and, on a frame that clears the
// MAC filter, runs it through Route synchronously (background frames
// are parsed inline, not deferred to the Processing task).
func (k *Kernel) HandleBScan(scode, fcode int8) {
	if scode < 0 && k.comm.Redundants > 0 {
		k.comm.Redundants--
		if top := k.Stack.Top(); top != nil {
			k.Radio.RxInitBF(top.Channel, k.HandleBScan)
		}
		return
	}

	subnet := k.filterSubnet()
	k.Stack.Pop()
	if scode >= 0 && k.MAC.Accept(k.comm.Scratch[0], k.comm.Scratch[1], subnet) {
		k.Mutex.Set(dllcomm.MutexProcessing)
		k.hooks.Route(nil)
	}
	k.Mutex.Clear(dllcomm.MutexProcessing | dllcomm.MutexRadioListen)
	k.RFA.Reset()
	k.hooks.RFATerminate(dllcomm.TerminateBScan)
}

// HandleFrx is the rfevt_frx callback. pcode < 0 means the RX timeout
// fired with no frame received: a session with redundant attempts left
// retries the foreground request, an A2P dialog flips direction, and
// anything else is scrapped. pcode >= 0 means a frame arrived; a bad
// CRC or a failed MAC filter check always re-enters RX without ever
// terminating the task. A good frame flags PROCESSING either way, but
// only terminates the listen (RFA.Reset) when the session is not on
// the response leg (DialogReqRx); a response-leg session keeps
// listening for the rest of the transfer.
func (k *Kernel) HandleFrx(pcode, fcode int8) {
	top := k.Stack.Top()
	if top == nil {
		return
	}

	if pcode < 0 {
		k.RFA.Reset()
		k.hooks.RFATerminate(dllcomm.TerminateFScan)
		switch {
		case k.comm.Redundants > 0:
			top.State = dllcomm.InitState(dllcomm.DialogReqTx, dllcomm.FlagFirstRx)
		case k.comm.CSMA.IsA2P():
			top.State.Dialog = top.State.Dialog.Toggle()
		default:
			top.State = dllcomm.ScrapState()
		}
		return
	}

	frxCode := int8(0)
	switch {
	case fcode != 0:
		frxCode = -1
	case !k.MAC.Accept(k.comm.Scratch[0], k.comm.Scratch[1], k.filterSubnet()):
		frxCode = -4
	}

	if pcode != 0 {
		return
	}

	if frxCode == 0 {
		k.Mutex.Set(dllcomm.MutexProcessing)
		k.processingPending = true
		if top.State.Dialog == dllcomm.DialogReqRx {
			k.Radio.ReenterRx(0)
			return
		}
		k.RFA.Reset()
		k.hooks.RFATerminate(dllcomm.TerminateFScan)
		return
	}
	k.Radio.ReenterRx(0)
}

// HandleFtx is the rfevt_ftx callback. A remaining redundant attempt on
// a background-response dialog (or a dialog with no RX turnaround at
// all) triggers an immediate CSMA-free resend; otherwise the dialog
// flips to listening for the reply. The scrap bit is set on a TX error
// or whenever no RX turnaround was ever expected and no redundants are
// left to retry, matching the source's scrap_bit composition exactly.
func (k *Kernel) HandleFtx(pcode int8, scratch []byte) {
	top := k.Stack.Top()
	if top == nil {
		return
	}
	if k.comm.Redundants > 0 {
		k.comm.Redundants--
	}

	noTurnaround := k.comm.RxTimeout == 0 || top.State.Dialog == dllcomm.DialogRespTx
	resendable := noTurnaround && k.comm.Redundants > 0 && pcode >= 0
	if resendable {
		k.comm.CSMA.Flags |= dllcomm.FlagNoCSMA
		k.Radio.PrepResend()
		return
	}

	scrap := pcode < 0 || noTurnaround
	top.State.Dialog = dllcomm.DialogRespRx
	if scrap {
		top.State.Set(dllcomm.FlagScrap)
	}
	k.Mutex.Clear(dllcomm.MutexRadioListen | dllcomm.MutexRadioData)
	k.RFA.Reset()
	k.hooks.RFATerminate(dllcomm.TerminateFTx)
}

// HandleBtx is the rfevt_btx callback for a background flood transmit.
// flcode 0 means the flood ran to completion: the dialog flips to a
// single foreground request with CSMA disabled and one attempt left,
// picking up the response leg. flcode 2 is a mid-flood frame boundary
// and needs no state change; anything else aborts the flood outright.
func (k *Kernel) HandleBtx(flcode int8, scratch []byte) {
	switch flcode {
	case 0:
		k.comm.CSMA.Flags |= dllcomm.FlagNoCSMA
		k.comm.Redundants = 1
		if top := k.Stack.Top(); top != nil {
			top.State.Dialog = dllcomm.DialogReqTx
		}
		k.Mutex.Clear(dllcomm.MutexRadioListen | dllcomm.MutexRadioData)
		k.RFA.Reset()
		k.hooks.RFATerminate(dllcomm.TerminateBTx)
	case 2:
		// mid-flood frame boundary: the driver keeps transmitting on its own.
	default:
		k.Stack.Pop()
		k.Mutex.Clear(dllcomm.MutexRadioListen | dllcomm.MutexRadioData)
		k.RFA.Reset()
		k.hooks.RFATerminate(dllcomm.TerminateBTx)
	}
}
