package idle

import "github.com/dbehnke/dash7kernel/internal/isf"

// ScanFireResult is what firing a hold-scan or sleep-scan event
// produces: the entry read, and its expanded RX timeout in ticks.
type ScanFireResult struct {
	Entry     isf.ScanEntry
	RxTimeout uint32
}

// ScanSequencer drives HSS or SSS: it reads one entry per fire, advances
// the cursor with wraparound, and optionally binds an RTC alarm.
type ScanSequencer struct {
	Event
	Entries  []isf.ScanEntry
	Schedule []isf.ScheduleEntry
	RTC      RTC
}

// Fire advances the sequence by one entry and reports it. ok is false
// if the event is disabled or the sequence is empty (in which case the
// countdown backs off so the caller doesn't spin).
func (s *ScanSequencer) Fire() (result ScanFireResult, ok bool) {
	if !s.Enabled() {
		return ScanFireResult{}, false
	}
	if len(s.Entries) == 0 {
		s.NextEvent.Set(65535)
		return ScanFireResult{}, false
	}

	entry := s.Entries[s.Cursor]
	result = ScanFireResult{Entry: entry, RxTimeout: entry.RxTimeout()}

	s.Cursor = (s.Cursor + 1) % len(s.Entries)
	s.NextEvent.Set(int32(entry.NextInterval))

	s.bindSchedule()
	return result, true
}

// bindSchedule programs the RTC alarm and resets cursor/nextevent to 0
// when this event is bound to a schedule slot.
func (s *ScanSequencer) bindSchedule() {
	if s.SchedID == 0 || s.RTC == nil {
		return
	}
	idx := ScheduleOffset(s.SchedID) / 4
	if idx < 0 || idx >= len(s.Schedule) {
		return
	}
	entry := s.Schedule[idx]
	s.RTC.ProgramAlarm(entry.Mask, entry.Value)
	s.Cursor = 0
	s.NextEvent.Set(0)
}
