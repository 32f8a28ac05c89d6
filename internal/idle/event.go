// Package idle implements the HSS/SSS/BTS idle-time event sequencer:
// hold-scan, sleep-scan, and beacon-transmit sequences read from an ISF
// store, plus RTC alarm binding for schedule-driven events.
package idle

import "github.com/dbehnke/dash7kernel/internal/dllcomm"

// EventNo is the enable/disable state of an idle-time event.
type EventNo uint8

const (
	EventDisabled EventNo = 0
	EventEnabled  EventNo = 1
)

// Event is the common {event_no, cursor, nextevent, sched_id, prestart}
// record shared by HSS, SSS, and BTS.
type Event struct {
	EventNo   EventNo
	Cursor    int
	NextEvent dllcomm.Countdown
	SchedID   uint8
	Prestart  bool
}

// Enabled reports whether the event fires at all.
func (e *Event) Enabled() bool { return e.EventNo != EventDisabled }

// Ready reports whether the event's countdown has elapsed.
func (e *Event) Ready() bool { return e.Enabled() && e.NextEvent.Expired() }

// RTC is the platform real-time-clock alarm the sequencer programs when
// an event is schedule-bound.
type RTC interface {
	ProgramAlarm(mask, value uint16)
}

// ScheduleOffset computes the RTC schedule ISF byte offset for a given
// sched_id, per the source kernel's exact arithmetic.
func ScheduleOffset(schedID uint8) int {
	return (int(schedID) - 4) << 2
}
