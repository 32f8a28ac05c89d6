package session

import (
	"testing"

	"github.com/dbehnke/dash7kernel/internal/dllcomm"
)

func TestStack_EmptyCount(t *testing.T) {
	s := NewStack(4)
	if got := s.Count(); got != -1 {
		t.Errorf("Count() on empty stack = %d, want -1", got)
	}
	if s.Top() != nil {
		t.Error("Top() on empty stack should be nil")
	}
}

func TestStack_NewAndPop(t *testing.T) {
	s := NewStack(4)
	sess := s.New(100, dllcomm.InitState(dllcomm.DialogReqTx), 7)
	if sess == nil {
		t.Fatal("New() returned nil unexpectedly")
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	if s.Top() != sess {
		t.Error("Top() should return the just-pushed session")
	}

	s.Pop()
	if s.Count() != -1 {
		t.Errorf("Count() after Pop() = %d, want -1", s.Count())
	}
}

func TestStack_OverflowRejectsNonAdHoc(t *testing.T) {
	s := NewStack(2)
	s.New(50, dllcomm.InitState(dllcomm.DialogReqTx), 1)
	s.New(50, dllcomm.InitState(dllcomm.DialogReqTx), 2)

	if got := s.New(50, dllcomm.InitState(dllcomm.DialogReqTx), 3); got != nil {
		t.Error("New() with wait!=0 on a full stack should return nil")
	}
}

func TestStack_AdHocAlwaysSucceeds(t *testing.T) {
	s := NewStack(2)
	s.New(50, dllcomm.InitState(dllcomm.DialogReqTx), 1)
	s.New(50, dllcomm.InitState(dllcomm.DialogReqTx), 2)

	adHoc := s.New(0, dllcomm.InitState(dllcomm.DialogReqTx), 3)
	if adHoc == nil {
		t.Fatal("ad-hoc New() should always succeed")
	}
	if s.Top() != adHoc {
		t.Error("ad-hoc session should be on top after eviction")
	}
}

func TestStack_RefreshPopsExpiredScrap(t *testing.T) {
	s := NewStack(4)
	sess := s.New(5, dllcomm.InitState(dllcomm.DialogReqTx), 1)
	sess.State.Set(dllcomm.FlagScrap)

	s.Refresh(10)
	if s.Count() != -1 {
		t.Error("expired scrap session should be popped by Refresh")
	}
}

func TestStack_DropRetainsHeaderState(t *testing.T) {
	s := NewStack(4)
	sess := s.New(5, dllcomm.InitState(dllcomm.DialogReqTx), 1)

	s.Drop()
	if s.Count() != 0 {
		t.Error("Drop() should retain the session on the stack")
	}
	if sess.IsActive() {
		t.Error("Drop() should mark the session inactive")
	}
}

func TestStack_FlushRemovesExpiredNonHold(t *testing.T) {
	s := NewStack(4)
	expired := s.New(0, dllcomm.InitState(dllcomm.DialogReqTx), 1)
	expired.Counter.Set(0)

	held := s.New(0, dllcomm.InitState(dllcomm.DialogReqTx, dllcomm.FlagHold), 2)
	held.Counter.Set(0)

	s.Flush()
	if s.Count() != 0 {
		t.Errorf("Count() after Flush() = %d, want 0 (only held session survives)", s.Count())
	}
	if s.Top() != held {
		t.Error("Flush() should keep the held session")
	}
}
