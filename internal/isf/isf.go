// Package isf defines the Indexed Subordinate File store contract: the
// read-only (to the core) configuration store holding network settings,
// scan/beacon sequences, and the RTC schedule. The core never opens a
// file or a database directly — it only calls a Store.
package isf

import "github.com/dbehnke/dash7kernel/internal/dllcomm"

// ScanEntry is one record of the hold-scan or sleep-scan sequence.
type ScanEntry struct {
	Channel      uint8
	Flags        uint8
	NextInterval uint16
}

// Background reports whether this entry is a background-frame scan
// (flags bit 7).
func (e ScanEntry) Background() bool { return e.Flags&0x80 != 0 }

// RxTimeout expands the entry's exp-mantissa timeout code (bits 5:0)
// into ticks, applying the x1024 multiplier when flags bit 6 is set.
func (e ScanEntry) RxTimeout() uint32 {
	return expandTimeout(e.Flags)
}

// BeaconEntry is one record of the beacon-transmit sequence.
type BeaconEntry struct {
	Channel      uint8
	Params       uint8
	CallHi       uint16
	CallLo       uint16
	NextInterval uint16
}

// FloodBeacon reports whether params bit 2 requests a flood-style
// (multi-frame advertising) beacon rather than a single frame.
func (e BeaconEntry) FloodBeacon() bool { return e.Params&0x04 != 0 }

// RxTimeout expands the beacon entry's params byte the same way a scan
// entry's flags byte is expanded; bit 1 selects the long timeout.
func (e BeaconEntry) RxTimeout() uint32 {
	if e.Params&0x02 != 0 {
		return expandTimeout(e.Params) * 4
	}
	return expandTimeout(e.Params)
}

// ScheduleEntry is one four-byte RTC schedule slot.
type ScheduleEntry struct {
	Mask  uint16
	Value uint16
}

// expandTimeout applies the exp-mantissa expansion shared by scan and
// beacon records: bits 5:3 are the exponent, bits 2:0 are the mantissa,
// bit 6 requests a further x1024 multiplier.
func expandTimeout(code uint8) uint32 {
	exponent := (code >> 3) & 0x07
	mantissa := code & 0x07
	timeout := uint32(mantissa+1) << exponent
	if code&0x40 != 0 {
		timeout *= 1024
	}
	return timeout
}

// Store is the read-only configuration interface the kernel depends on.
// Two backends implement it: a flat-file store and a database-backed
// store, mirroring the file/database lookup split the rest of the
// module's dependency stack is built on.
type Store interface {
	NetworkSettings() (dllcomm.NetworkConfig, error)
	SupportedSettingsMask() (uint16, error)
	HoldScanSequence() ([]ScanEntry, error)
	SleepScanSequence() ([]ScanEntry, error)
	BeaconTransmitSequence() ([]BeaconEntry, error)
	RealTimeSchedule() ([]ScheduleEntry, error)
	Close() error
}
