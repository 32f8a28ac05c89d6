package idle

import (
	"github.com/dbehnke/dash7kernel/internal/auth"
	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/isf"
)

// BeaconFireResult is what firing a beacon-transmit event produces: the
// entry read, its CSMA parameters, redundant-attempt count, and the
// authentication context to attach to the frame.
type BeaconFireResult struct {
	Entry      isf.BeaconEntry
	RxTimeout  uint32
	CSMA       dllcomm.CSMAParams
	Redundants uint8
	Auth       auth.GuestContext
}

// BeaconSequencer drives BTS: on each fire it builds a fully-formed TX
// frame descriptor rather than a listen session.
type BeaconSequencer struct {
	Event
	Entries    []isf.BeaconEntry
	Schedule   []isf.ScheduleEntry
	RTC        RTC
	Auth       auth.Provider
	BAttempts  uint8
}

// Fire advances the sequence by one beacon entry. An empty sequence
// backs the event off 65535 ticks before rechecking, matching the source
// kernel's behavior for an unprovisioned beacon file; a disabled event
// does not fire and leaves its countdown unchanged.
func (b *BeaconSequencer) Fire() (result BeaconFireResult, ok bool) {
	if !b.Enabled() {
		return BeaconFireResult{}, false
	}
	if len(b.Entries) == 0 {
		b.NextEvent.Set(65535)
		return BeaconFireResult{}, false
	}

	entry := b.Entries[b.Cursor]

	authProvider := b.Auth
	if authProvider == nil {
		authProvider = auth.NoOp{}
	}

	csma := dllcomm.CSMAParams{Mode: dllcomm.CSMADefault}
	if entry.FloodBeacon() {
		csma.Flags |= dllcomm.FlagA2P
	}

	result = BeaconFireResult{
		Entry:      entry,
		RxTimeout:  entry.RxTimeout(),
		CSMA:       csma,
		Redundants: b.BAttempts,
		Auth:       authProvider.GuestContext(),
	}

	b.Cursor = (b.Cursor + 1) % len(b.Entries)
	b.NextEvent.Set(int32(entry.NextInterval))

	b.bindSchedule()
	return result, true
}

func (b *BeaconSequencer) bindSchedule() {
	if b.SchedID == 0 || b.RTC == nil {
		return
	}
	idx := ScheduleOffset(b.SchedID) / 4
	if idx < 0 || idx >= len(b.Schedule) {
		return
	}
	entry := b.Schedule[idx]
	b.RTC.ProgramAlarm(entry.Mask, entry.Value)
	b.Cursor = 0
	b.NextEvent.Set(0)
}
