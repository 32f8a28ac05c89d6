package kernel

import (
	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/idle"
)

// armIdleScan pushes an ad-hoc listening session for a fired hold-scan
// or sleep-scan entry and starts the radio task it calls for: a
// background scan for beacon traffic, or a foreground scan when the
// entry asks for a directed listen.
func (k *Kernel) armIdleScan(result idle.ScanFireResult) {
	k.comm.RxTimeout = uint16(result.RxTimeout)
	dialog := dllcomm.DialogRespRx
	if !result.Entry.Background() {
		dialog = dllcomm.DialogReqRx
	}
	if k.Stack.New(0, dllcomm.InitState(dialog), result.Entry.Channel) == nil {
		return
	}
	if dialog == dllcomm.DialogRespRx {
		k.bscan()
	} else {
		k.fscan()
	}
}

// maxTasksPerIteration bounds how many zero-duration tasks Dispatch will
// run back to back before returning control to the caller. The real
// event manager loops forever; this cap only exists so a test harness
// driving Dispatch in a tight loop can't spin forever on a
// misconfigured kernel.
const maxTasksPerIteration = 256

// Dispatch clocks every countdown by elapsed ticks, then repeatedly
// selects and runs the highest-priority ready task until one of them
// reports how long the caller may sleep before calling Dispatch again.
func (k *Kernel) Dispatch(elapsed int32) int32 {
	k.clockTasks(elapsed)

	for i := 0; i < maxTasksPerIteration; i++ {
		switch k.chooseTask() {
		case TaskProcessing:
			k.executeProcessing()
		case TaskRadio:
			return k.executeRadio()
		case TaskSession:
			k.executeSession()
		case TaskHold:
			k.executeHold()
		case TaskSleep:
			k.executeSleep()
		case TaskBeacon:
			k.executeBeacon()
		case TaskExternal:
			k.executeExternal()
		case TaskIdle:
			return k.executeIdle()
		}
	}
	return 1
}

// clockTasks pets the watchdog while the radio is idle and only lets it
// run down while a radio operation is in flight, so a healthy kernel
// with no pending transfer never trips it.
func (k *Kernel) clockTasks(elapsed int32) {
	if k.RFA.EventNo.InFlight() {
		k.watchdog.Tick(elapsed)
	} else {
		k.watchdog.Set(int32(k.cfg.WatchdogPeriod))
	}
	if k.cfg.WatchdogEnabled && k.watchdog.Expired() {
		k.Radio.Kill()
		k.RFA.Reset()
		k.Stack.Flush()
		k.watchdog.Set(int32(k.cfg.WatchdogPeriod))
	}

	k.comm.ClockTasks(elapsed)
	k.Hold.NextEvent.Tick(elapsed)
	k.Sleep.NextEvent.Tick(elapsed)
	k.Beacon.NextEvent.Tick(elapsed)
	k.RFA.Clock(elapsed)
	k.Stack.Refresh(elapsed)
}

// chooseTask implements the strict priority order: Processing, Radio,
// Session, idle events (Beacon over Sleep over Hold), External, Idle.
func (k *Kernel) chooseTask() Task {
	if k.processingPending {
		return TaskProcessing
	}
	if k.RFA.EventNo != dllcomm.RFAIdle {
		return TaskRadio
	}
	if top := k.Stack.Top(); top != nil && top.IsActive() && top.State.Has(dllcomm.FlagInit) && top.Counter.Expired() {
		return TaskSession
	}

	task := TaskIdle
	if k.Hold.Ready() {
		task = TaskHold
	}
	if k.Sleep.Ready() {
		task = TaskSleep
	}
	if k.Beacon.Ready() {
		task = TaskBeacon
	}
	if task != TaskIdle {
		return task
	}

	if len(k.externalQueue) > 0 {
		return TaskExternal
	}
	return TaskIdle
}

func (k *Kernel) executeProcessing() {
	top := k.Stack.Top()
	score, listen, txLen, responseChannel := k.hooks.Route(top)
	if score >= 0 {
		k.CSMA.EvalQueryScore(score)
		k.comm.IdleState = dllcomm.IdleHold
		k.holdCycle = 0
		if listen {
			wait := k.comm.Tc - k.Radio.PktDuration(txLen)
			if wait < 0 {
				wait = 0
			}
			k.Stack.New(uint16(wait), dllcomm.InitState(dllcomm.DialogReqRx), responseChannel)
		}
	}
	k.Mutex.Clear(dllcomm.MutexProcessing)
	k.processingPending = false
}

// executeSession restores the default idle posture and services the top
// session: Drop followed by Activate leaves that same session on top,
// which is popped if it is marked scrap and otherwise has whichever
// radio initializer its dialog direction calls for armed.
func (k *Kernel) executeSession() {
	k.Stack.Drop()
	k.comm.IdleState = dllcomm.DefaultIdleState(k.cfg.Class)

	top := k.Stack.Top()
	if top == nil {
		return
	}
	top.Activate()

	dialog, scrap := top.TxModeSelector()
	if scrap {
		k.Stack.Pop()
		return
	}

	switch dialog {
	case dllcomm.DialogReqTx:
		k.initForegroundTx()
	case dllcomm.DialogReqRx:
		k.fscan()
	case dllcomm.DialogRespTx:
		k.initBackgroundTx()
	case dllcomm.DialogRespRx:
		k.bscan()
	}
}

// executeHold implements the hold-cycle-to-sleep transition: hold_cycle
// increments whenever the hold sequencer's cursor sat at 0 coming into
// this iteration (meaning the previous fire just wrapped it), and an
// endpoint that has reached hold_limit drops straight to sleep and
// fires one sleep-scan immediately rather than waiting a full tick.
func (k *Kernel) executeHold() {
	if k.Hold.Cursor == 0 {
		k.holdCycle++
	}

	if k.cfg.Class&dllcomm.ClassEndpoint != 0 && k.holdCycle >= k.cfg.HoldLimit {
		k.comm.IdleState = dllcomm.IdleSleep
		k.Sleep.EventNo = idle.EventEnabled
		k.Hold.EventNo = idle.EventDisabled
		k.holdCycle = 0
		k.executeSleep()
		return
	}
	if result, ok := k.Hold.Fire(); ok {
		k.armIdleScan(result)
	}
}

func (k *Kernel) executeSleep() {
	if result, ok := k.Sleep.Fire(); ok {
		k.armIdleScan(result)
	}
}

func (k *Kernel) executeBeacon() {
	result, ok := k.Beacon.Fire()
	if !ok {
		return
	}

	k.comm.CSMA = result.CSMA
	k.comm.Redundants = result.Redundants
	k.comm.RxTimeout = uint16(result.RxTimeout)
	k.TxQueue.PutFrame([]byte{
		result.Entry.Channel, result.Entry.Params,
		byte(result.Entry.CallHi >> 8), byte(result.Entry.CallHi),
		byte(result.Entry.CallLo >> 8), byte(result.Entry.CallLo),
	})
}

func (k *Kernel) executeExternal() {
	if len(k.externalQueue) == 0 {
		return
	}
	call := k.externalQueue[0]
	k.externalQueue = k.externalQueue[1:]
	call(k)
}

// executeIdle computes how long the caller may sleep: a connected top
// session's own counter if one is active, otherwise the nearest of the
// three idle-event countdowns, capped to a 65535-tick backoff.
func (k *Kernel) executeIdle() int32 {
	if top := k.Stack.Top(); top != nil && top.State.IsConnected() {
		return top.Counter.Value()
	}
	if k.hooks.LoadApp() {
		return 0
	}

	eta := k.Hold.NextEvent.Value()
	if v := k.Sleep.NextEvent.Value(); v < eta {
		eta = v
	}
	if v := k.Beacon.NextEvent.Value(); v < eta {
		eta = v
	}
	switch {
	case eta > 65535:
		eta = 65535
	case eta < 0:
		eta = 0
	}
	return eta
}
