package kernel

import (
	"testing"

	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/idle"
	"github.com/dbehnke/dash7kernel/internal/isf"
	"github.com/dbehnke/dash7kernel/internal/radio"
)

type fakeStore struct {
	net      dllcomm.NetworkConfig
	mask     uint16
	hold     []isf.ScanEntry
	sleep    []isf.ScanEntry
	beacons  []isf.BeaconEntry
	schedule []isf.ScheduleEntry
}

func (f *fakeStore) NetworkSettings() (dllcomm.NetworkConfig, error)    { return f.net, nil }
func (f *fakeStore) SupportedSettingsMask() (uint16, error)             { return f.mask, nil }
func (f *fakeStore) HoldScanSequence() ([]isf.ScanEntry, error)         { return f.hold, nil }
func (f *fakeStore) SleepScanSequence() ([]isf.ScanEntry, error)        { return f.sleep, nil }
func (f *fakeStore) BeaconTransmitSequence() ([]isf.BeaconEntry, error) { return f.beacons, nil }
func (f *fakeStore) RealTimeSchedule() ([]isf.ScheduleEntry, error)     { return f.schedule, nil }
func (f *fakeStore) Close() error                                       { return nil }

func TestKernel_ColdStartEndpoint(t *testing.T) {
	store := &fakeStore{
		net:   dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint, HoldLimit: 3},
		sleep: []isf.ScanEntry{{Channel: 1, NextInterval: 10}},
	}
	sim := radio.NewSimulated(1, 1)
	k := New(Config{Class: dllcomm.ClassEndpoint, HoldLimit: 3}, sim, store, nil)

	if err := k.Sysinit(); err != nil {
		t.Fatalf("Sysinit() error = %v", err)
	}

	if k.IdleState() != dllcomm.IdleSleep {
		t.Errorf("IdleState() = %v, want sleep", k.IdleState())
	}
	if k.Sleep.EventNo != idle.EventEnabled {
		t.Errorf("Sleep.EventNo = %v, want enabled", k.Sleep.EventNo)
	}
	if k.Sleep.Cursor != 0 {
		t.Errorf("Sleep.Cursor = %d, want 0", k.Sleep.Cursor)
	}
	if k.Hold.EventNo != idle.EventDisabled {
		t.Errorf("Hold.EventNo = %v, want disabled", k.Hold.EventNo)
	}
	if !sim.Killed() {
		t.Error("expected radio killed (asleep) at cold start")
	}
}

func TestKernel_HoldToSleepTransition(t *testing.T) {
	sim := radio.NewSimulated(1, 1)
	store := &fakeStore{net: dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint}}
	k := New(Config{Class: dllcomm.ClassEndpoint, HoldLimit: 3}, sim, store, nil)

	k.Hold.EventNo = idle.EventEnabled
	k.Hold.Entries = []isf.ScanEntry{{Channel: 9, NextInterval: 5}}
	k.Sleep.Entries = []isf.ScanEntry{{Channel: 1, NextInterval: 10}}
	k.comm.IdleState = dllcomm.IdleHold

	k.executeHold()
	k.executeHold()
	if k.IdleState() != dllcomm.IdleHold {
		t.Fatalf("IdleState() after 2 hold fires = %v, want still hold", k.IdleState())
	}
	k.executeHold()

	if k.IdleState() != dllcomm.IdleSleep {
		t.Errorf("IdleState() after hold_limit fires = %v, want sleep", k.IdleState())
	}
	if k.Sleep.EventNo != idle.EventEnabled {
		t.Errorf("Sleep.EventNo = %v, want enabled", k.Sleep.EventNo)
	}
	if k.Sleep.NextEvent.Value() != 10 {
		t.Errorf("Sleep.NextEvent = %d, want 10 (one immediate sleep-scan fired)", k.Sleep.NextEvent.Value())
	}
}

func TestKernel_FScanTimeoutRetriesWithRedundants(t *testing.T) {
	sim := radio.NewSimulated(1, 1)
	store := &fakeStore{net: dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint}}
	k := New(Config{Class: dllcomm.ClassEndpoint}, sim, store, nil)

	k.Stack.New(1, dllcomm.InitState(dllcomm.DialogReqRx), 3)
	k.comm.Redundants = 2
	k.RFA.EventNo = dllcomm.RFAFScan

	k.HandleFrx(-1, 0)

	if k.RFA.EventNo != dllcomm.RFAIdle {
		t.Errorf("RFA.EventNo = %v, want idle", k.RFA.EventNo)
	}
	top := k.Stack.Top()
	if top == nil {
		t.Fatal("expected a top session")
	}
	if top.State.Dialog != dllcomm.DialogReqTx {
		t.Errorf("top.State.Dialog = %v, want ReqTx", top.State.Dialog)
	}
	if !top.State.Has(dllcomm.FlagInit) || !top.State.Has(dllcomm.FlagFirstRx) {
		t.Errorf("top.State.Flags = %v, want Init|FirstRx set", top.State.Flags)
	}
	if k.comm.Redundants != 2 {
		t.Errorf("Redundants = %d, want unchanged at 2", k.comm.Redundants)
	}
}

func TestKernel_BadCRCSingleFrame(t *testing.T) {
	sim := radio.NewSimulated(1, 1)
	store := &fakeStore{net: dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint}}
	k := New(Config{Class: dllcomm.ClassEndpoint}, sim, store, nil)

	k.Stack.New(1, dllcomm.InitState(dllcomm.DialogReqRx), 3)
	k.RFA.EventNo = dllcomm.RFAFScan
	k.RFA.NextEvent = 0

	k.HandleFrx(0, 1)

	if k.Mutex.Has(dllcomm.MutexProcessing) {
		t.Error("PROCESSING mutex should not be set on a bad-CRC frame")
	}
	if k.processingPending {
		t.Error("processingPending should not be set on a bad-CRC frame")
	}
	if k.RFA.EventNo != dllcomm.RFAFScan {
		t.Errorf("RFA.EventNo = %v, want unchanged FScan", k.RFA.EventNo)
	}
}

func TestKernel_MutexPopCountBounded(t *testing.T) {
	var m dllcomm.Mutex
	m.Set(dllcomm.MutexRadioListen)
	m.Set(dllcomm.MutexRadioData)
	m.Set(dllcomm.MutexProcessing)
	if got := m.PopCount(); got != 3 {
		t.Errorf("PopCount() = %d, want 3 (all three mutex bits)", got)
	}
}

func TestKernel_StartDialogClearsMutexAndSilencesRadio(t *testing.T) {
	sim := radio.NewSimulated(1, 1)
	store := &fakeStore{net: dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint}}
	k := New(Config{Class: dllcomm.ClassEndpoint}, sim, store, nil)

	k.Mutex.Set(dllcomm.MutexRadioListen | dllcomm.MutexProcessing)
	k.RFA.EventNo = dllcomm.RFAFScan

	if ticks := k.StartDialog(); ticks != 1 {
		t.Errorf("StartDialog() = %d, want 1", ticks)
	}
	if !k.Mutex.IsZero() {
		t.Error("expected mutex cleared after StartDialog")
	}
	if k.RFA.EventNo != dllcomm.RFAIdle {
		t.Errorf("RFA.EventNo = %v, want idle", k.RFA.EventNo)
	}
	if !sim.Killed() {
		t.Error("expected radio killed after StartDialog")
	}
}

func TestKernel_ChooseTaskPriority(t *testing.T) {
	sim := radio.NewSimulated(1, 1)
	store := &fakeStore{net: dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint}}
	k := New(Config{Class: dllcomm.ClassEndpoint}, sim, store, nil)

	k.processingPending = true
	k.RFA.EventNo = dllcomm.RFAFScan
	if got := k.chooseTask(); got != TaskProcessing {
		t.Errorf("chooseTask() = %v, want Processing (highest priority)", got)
	}

	k.processingPending = false
	if got := k.chooseTask(); got != TaskRadio {
		t.Errorf("chooseTask() = %v, want Radio", got)
	}

	k.RFA.EventNo = dllcomm.RFAIdle
	if got := k.chooseTask(); got != TaskIdle {
		t.Errorf("chooseTask() = %v, want Idle with nothing else pending", got)
	}
}

func TestKernel_NewSessionAdHocAlwaysSucceeds(t *testing.T) {
	sim := radio.NewSimulated(1, 1)
	store := &fakeStore{net: dllcomm.NetworkConfig{Active: dllcomm.ClassEndpoint}}
	k := New(Config{Class: dllcomm.ClassEndpoint}, sim, store, nil)

	for i := 0; i < 8; i++ {
		id := k.NewSession(SessionTemplate{Channel: uint8(i), Wait: 0})
		if id == 0 {
			t.Fatalf("NewSession() ad-hoc call #%d returned 0", i)
		}
	}
}
