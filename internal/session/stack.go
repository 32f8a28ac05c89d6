package session

import "github.com/dbehnke/dash7kernel/internal/dllcomm"

// DefaultCapacity is the depth used when a stack is not sized explicitly,
// matching the source kernel's small fixed-size session table.
const DefaultCapacity = 4

// Stack is the bounded LIFO of active sessions. The top entry is the one
// the event manager services.
type Stack struct {
	entries  []*Session
	capacity int
}

// NewStack returns an empty stack with room for capacity sessions.
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{capacity: capacity}
}

// New pushes a new session and returns it, or nil on overflow. wait == 0
// marks an ad-hoc session, which always succeeds: if the stack is full,
// the oldest (bottom) entry is evicted to make room.
func (s *Stack) New(wait uint16, state dllcomm.NetState, channel uint8) *Session {
	sess := &Session{
		Channel: channel,
		State:   state,
		active:  true,
	}
	sess.Counter.Set(int32(wait))

	if len(s.entries) >= s.capacity {
		if wait != 0 {
			return nil
		}
		s.entries = s.entries[1:]
	}

	s.entries = append(s.entries, sess)
	return sess
}

// Top returns the current top session, or nil if the stack is empty.
func (s *Stack) Top() *Session {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// Pop discards the top session entirely.
func (s *Stack) Pop() {
	if len(s.entries) == 0 {
		return
	}
	s.entries = s.entries[:len(s.entries)-1]
}

// Drop marks the top session inactive but retains its header state,
// leaving it on the stack.
func (s *Stack) Drop() {
	if top := s.Top(); top != nil {
		top.active = false
	}
}

// Refresh decrements the top session's counter by elapsed ticks and pops
// it if it has both expired and is marked scrap.
func (s *Stack) Refresh(elapsed int32) {
	top := s.Top()
	if top == nil {
		return
	}
	top.Counter.Tick(elapsed)
	if top.Counter.Expired() && top.State.IsScrap() {
		s.Pop()
	}
}

// Flush removes every non-holding session whose counter has expired,
// walking from the bottom of the stack up.
func (s *Stack) Flush() {
	kept := s.entries[:0]
	for _, sess := range s.entries {
		if sess.Counter.Expired() && !sess.State.Has(dllcomm.FlagHold) {
			continue
		}
		kept = append(kept, sess)
	}
	s.entries = kept
}

// Count returns depth-1: -1 on an empty stack, 0 for a single session.
func (s *Stack) Count() int {
	return len(s.entries) - 1
}
