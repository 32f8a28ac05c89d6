package radio

import "testing"

func TestSimulated_FireBScan(t *testing.T) {
	d := NewSimulated(8, 4)
	var gotScode, gotFcode int8 = 99, 99

	d.RxInitBF(1, func(scode, fcode int8) {
		gotScode, gotFcode = scode, fcode
	})
	d.FireBScan(0, 1)

	if gotScode != 0 || gotFcode != 1 {
		t.Errorf("callback got (%d, %d), want (0, 1)", gotScode, gotFcode)
	}
}

func TestSimulated_ScriptedCSMA(t *testing.T) {
	d := NewSimulated(8, 4)
	d.ScriptCSMA(ErrCCAFail, ErrCCAFail, Success)

	if got := d.TxCSMA(); got != ErrCCAFail {
		t.Errorf("TxCSMA() = %v, want ErrCCAFail", got)
	}
	if got := d.TxCSMA(); got != ErrCCAFail {
		t.Errorf("TxCSMA() = %v, want ErrCCAFail", got)
	}
	if got := d.TxCSMA(); got != Success {
		t.Errorf("TxCSMA() = %v, want Success", got)
	}
	if got := d.TxCSMA(); got != Success {
		t.Errorf("TxCSMA() after script exhausted = %v, want Success", got)
	}
}

func TestSimulated_PktDurationAndKill(t *testing.T) {
	d := NewSimulated(8, 4)
	if got := d.PktDuration(10); got != 80 {
		t.Errorf("PktDuration(10) = %d, want 80", got)
	}
	if d.Killed() {
		t.Error("Killed() should be false before Kill()")
	}
	d.Kill()
	if !d.Killed() {
		t.Error("Killed() should be true after Kill()")
	}
}
