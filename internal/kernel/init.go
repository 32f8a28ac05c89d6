package kernel

import (
	"fmt"

	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/idle"
)

// Sysinit loads the network identity and idle-time sequences from the
// ISF store and arms the correct idle event for the device's class,
// matching the cold-start boundary scenario: an endpoint comes up in
// sleep with SSS armed and HSS disabled, radio silent.
func (k *Kernel) Sysinit() error {
	net, err := k.Store.NetworkSettings()
	if err != nil {
		k.panic(1, "network settings")
		return fmt.Errorf("kernel: sysinit network settings: %w", err)
	}
	k.net = net

	hold, err := k.Store.HoldScanSequence()
	if err != nil {
		k.panic(2, "hold scan sequence")
		return fmt.Errorf("kernel: sysinit hold scan sequence: %w", err)
	}
	sleep, err := k.Store.SleepScanSequence()
	if err != nil {
		k.panic(2, "sleep scan sequence")
		return fmt.Errorf("kernel: sysinit sleep scan sequence: %w", err)
	}
	beacons, err := k.Store.BeaconTransmitSequence()
	if err != nil {
		k.panic(2, "beacon transmit sequence")
		return fmt.Errorf("kernel: sysinit beacon transmit sequence: %w", err)
	}
	schedule, err := k.Store.RealTimeSchedule()
	if err != nil {
		k.panic(2, "real time schedule")
		return fmt.Errorf("kernel: sysinit real time schedule: %w", err)
	}

	k.Hold.Entries = hold
	k.Hold.Schedule = schedule
	k.Hold.Cursor = 0
	k.Sleep.Entries = sleep
	k.Sleep.Schedule = schedule
	k.Sleep.Cursor = 0
	k.Beacon.Entries = beacons
	k.Beacon.Schedule = schedule
	k.Beacon.Cursor = 0
	k.Beacon.EventNo = idle.EventDisabled
	if k.cfg.BAttempts != 0 {
		k.Beacon.EventNo = idle.EventEnabled
	}

	k.comm.IdleState = dllcomm.DefaultIdleState(net.Active)
	switch k.comm.IdleState {
	case dllcomm.IdleHold:
		k.Hold.EventNo = idle.EventEnabled
		k.Sleep.EventNo = idle.EventDisabled
	case dllcomm.IdleSleep:
		k.Sleep.EventNo = idle.EventEnabled
		k.Hold.EventNo = idle.EventDisabled
	default:
		k.Hold.EventNo = idle.EventDisabled
		k.Sleep.EventNo = idle.EventDisabled
	}

	k.Radio.Kill()
	return nil
}

// ChangeSettings masks newSettings against the supported-settings mask
// read from ISF 1 before applying it, matching sys_change_settings.
func (k *Kernel) ChangeSettings(newSettings uint16) error {
	mask, err := k.Store.SupportedSettingsMask()
	if err != nil {
		return fmt.Errorf("kernel: change settings mask: %w", err)
	}
	applied := newSettings & mask
	k.net.Active = dllcomm.DeviceClass((uint16(k.net.Active) &^ mask) | applied)
	k.Stack.Flush()
	return nil
}
