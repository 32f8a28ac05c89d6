// Package kernel implements the event manager dispatcher (§4.1), the
// radio I/O state machine (§4.2), and the application-facing API
// (§6) on top of the session, dllcomm, mac, csma, idle, isf, and radio
// packages. It is the single owning value the redesign notes ask for:
// no package-level globals, everything reachable through a *Kernel.
package kernel

import (
	"log"

	"github.com/dbehnke/dash7kernel/internal/auth"
	"github.com/dbehnke/dash7kernel/internal/csma"
	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/idle"
	"github.com/dbehnke/dash7kernel/internal/isf"
	"github.com/dbehnke/dash7kernel/internal/mac"
	"github.com/dbehnke/dash7kernel/internal/queue"
	"github.com/dbehnke/dash7kernel/internal/radio"
	"github.com/dbehnke/dash7kernel/internal/session"
)

// Task is the highest-priority unit of work the dispatcher selected for
// the current iteration.
type Task int

const (
	TaskProcessing Task = iota
	TaskRadio
	TaskSession
	TaskHold
	TaskSleep
	TaskBeacon
	TaskExternal
	TaskIdle
)

func (t Task) String() string {
	names := [...]string{"Processing", "Radio", "Session", "Hold", "Sleep", "Beacon", "External", "Idle"}
	if int(t) < len(names) {
		return names[t]
	}
	return "Unknown"
}

// RouteScorer is the network layer's frame-acceptance hook: it returns
// a score >= 0 when the top session's received frame is addressed to
// this device, along with whether the frame requests a listen-cloned
// response session and how large the transmission it would answer was.
type RouteScorer func(top *session.Session) (score int, listen bool, txLen int, responseChannel uint8)

// Hooks are the capability set the dispatcher calls into: an interface
// with no-op defaults, per the redesign notes on function-pointer hook
// tables.
type Hooks struct {
	// LoadApp runs when nothing else is ready; returning true means it
	// queued work and the dispatcher should recheck immediately.
	LoadApp func() bool
	// Panic runs on a fatal configuration/ISF error.
	Panic func(code int)
	// RFATerminate runs whenever an in-flight radio task ends.
	RFATerminate func(reason dllcomm.RFATerminateReason)
	// Route scores a received frame; required for the Processing task.
	Route RouteScorer
}

func defaultHooks() Hooks {
	return Hooks{
		LoadApp:      func() bool { return false },
		Panic:        func(code int) {},
		RFATerminate: func(reason dllcomm.RFATerminateReason) {},
		Route:        func(top *session.Session) (int, bool, int, uint8) { return -1, false, 0, 0 },
	}
}

// Config is the runtime-tunable identity the kernel needs at start.
type Config struct {
	Class           dllcomm.DeviceClass
	HoldLimit       uint16
	LinkQualLimit   int8
	GuardTime       uint16
	WatchdogPeriod  uint32
	WatchdogEnabled bool
	BAttempts       uint8
}

// Kernel owns every piece of mutable state the dispatcher touches. It
// replaces the source kernel's `sys`/`dll` globals with fields on a
// single value, as the redesign notes require.
type Kernel struct {
	cfg  Config
	net  dllcomm.NetworkConfig
	comm *dllcomm.DLLComm

	Mutex dllcomm.Mutex
	RFA   dllcomm.RFAEvent

	Stack *session.Stack
	MAC   mac.PHYMAC
	CSMA  *csma.Controller

	Hold   *idle.ScanSequencer
	Sleep  *idle.ScanSequencer
	Beacon *idle.BeaconSequencer

	Radio radio.Driver
	Store isf.Store

	TxQueue *queue.Queue
	RxQueue *queue.Queue

	Auth auth.Provider

	watchdog          dllcomm.Countdown
	holdCycle         uint16
	dialogSeq         uint16
	processingPending bool
	externalQueue     []func(*Kernel)

	hooks Hooks
	log   *log.Logger
}

// New constructs a Kernel from its collaborators. The caller is
// responsible for having already loaded net from the ISF store into
// cfg-compatible fields (New does not touch the store itself; see
// Sysinit).
func New(cfg Config, radioDriver radio.Driver, store isf.Store, log *log.Logger) *Kernel {
	if log == nil {
		log = defaultLogger()
	}

	k := &Kernel{
		cfg:     cfg,
		comm:    dllcomm.NewDLLComm(dllcomm.DefaultIdleState(cfg.Class)),
		Stack:   session.NewStack(session.DefaultCapacity),
		Radio:   radioDriver,
		Store:   store,
		TxQueue: queue.New(512, "tx"),
		RxQueue: queue.New(512, "rx"),
		Auth:    auth.NoOp{},
		hooks:   defaultHooks(),
		log:     log,
	}
	k.CSMA = &csma.Controller{
		Rand:        csma.NewPlatformRand(1),
		PktDuration: radioDriver.PktDuration,
		GuardTime:   int32(cfg.GuardTime),
	}
	k.MAC = mac.PHYMAC{LinkQualLimit: cfg.LinkQualLimit}
	k.watchdog = *dllcomm.NewCountdown(int32(cfg.WatchdogPeriod))
	k.Hold = &idle.ScanSequencer{}
	k.Sleep = &idle.ScanSequencer{}
	k.Beacon = &idle.BeaconSequencer{BAttempts: cfg.BAttempts, Auth: k.Auth}
	return k
}

// SetHooks installs the application capability set.
func (k *Kernel) SetHooks(h Hooks) {
	if h.LoadApp != nil {
		k.hooks.LoadApp = h.LoadApp
	}
	if h.Panic != nil {
		k.hooks.Panic = h.Panic
	}
	if h.RFATerminate != nil {
		k.hooks.RFATerminate = h.RFATerminate
	}
	if h.Route != nil {
		k.hooks.Route = h.Route
	}
}

func defaultLogger() *log.Logger {
	return log.New(logDiscard{}, "", 0)
}

type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }

// IdleState reports the comm block's current radio posture.
func (k *Kernel) IdleState() dllcomm.IdleState { return k.comm.IdleState }

// Comm exposes the DLL comm block for tests and diagnostics.
func (k *Kernel) Comm() *dllcomm.DLLComm { return k.comm }

// NetworkConfig returns the loaded network identity.
func (k *Kernel) NetworkConfig() dllcomm.NetworkConfig { return k.net }

func (k *Kernel) panic(code int, reason string) {
	k.log.Printf("kernel: panic %d: %s", code, reason)
	k.Stack.Flush()
	k.comm.IdleState = dllcomm.IdleOff
	k.hooks.Panic(code)
}
