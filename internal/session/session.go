// Package session implements the bounded session stack: the unit of MAC
// dialog state the event manager services one at a time from the top.
package session

import (
	"github.com/dbehnke/dash7kernel/internal/dllcomm"
)

// Session is a single MAC dialog: a channel, a subnet, a netstate, and a
// countdown until its next action is due.
type Session struct {
	Channel  uint8
	Subnet   uint8
	State    dllcomm.NetState
	Counter  dllcomm.Countdown
	DialogID uint16
	Comm     dllcomm.DLLComm

	// active is false for a dropped session: header state is retained but
	// the session will not be dispatched again until Activate is called.
	active bool
}

// TxModeSelector returns the (dialog, scrap) pair the session task uses
// to pick an initializer, the redesigned form of the source's
// `(netstate >> 5) & 7` dispatch.
func (s *Session) TxModeSelector() (dialog dllcomm.DialogState, scrap bool) {
	return s.State.Dialog, s.State.IsScrap()
}

// IsActive reports whether the session is currently eligible for
// dispatch (not dropped).
func (s *Session) IsActive() bool { return s.active }

// Activate marks the session eligible for dispatch again.
func (s *Session) Activate() { s.active = true }
