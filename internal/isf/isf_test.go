package isf

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestFileStore_NetworkSettings(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, 10)
	data[0] = 0x5A // subnet
	data[1] = 0xF0 // b_subnet
	binary.BigEndian.PutUint16(data[4:6], uint16(0x01))
	data[6] = 0x01 // dd_flags
	data[7] = 0x03 // b_attempts
	binary.BigEndian.PutUint16(data[8:10], 8)
	writeFile(t, dir, "isf0.bin", data)

	store := NewFileStore(dir)
	cfg, err := store.NetworkSettings()
	if err != nil {
		t.Fatalf("NetworkSettings() error = %v", err)
	}
	if cfg.Subnet != 0x5A {
		t.Errorf("Subnet = 0x%02X, want 0x5A", cfg.Subnet)
	}
	if cfg.HoldLimit != 8 {
		t.Errorf("HoldLimit = %d, want 8", cfg.HoldLimit)
	}
	if cfg.BAttempts != 3 {
		t.Errorf("BAttempts = %d, want 3", cfg.BAttempts)
	}
}

func TestFileStore_ScanSequenceCursorWrap(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, scanRecordSize*3)
	for i := 0; i < 3; i++ {
		off := i * scanRecordSize
		data[off] = uint8(i + 1)
		data[off+1] = 0
		binary.BigEndian.PutUint16(data[off+2:off+4], uint16(100*(i+1)))
	}
	writeFile(t, dir, "hold_scan_sequence.bin", data)

	store := NewFileStore(dir)
	entries, err := store.HoldScanSequence()
	if err != nil {
		t.Fatalf("HoldScanSequence() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}

	cursor := (len(entries) - 1 + 1) % len(entries)
	if cursor != 0 {
		t.Errorf("cursor after last record = %d, want 0 (wrap)", cursor)
	}
	if entries[2].NextInterval != 300 {
		t.Errorf("entries[2].NextInterval = %d, want 300", entries[2].NextInterval)
	}
}

func TestFileStore_BeaconEntry_BoundaryScenario(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, beaconRecordSize)
	data[0] = 7    // channel
	data[1] = 0x05 // params
	binary.BigEndian.PutUint16(data[2:4], 0xAABB)
	binary.BigEndian.PutUint16(data[4:6], 0xCCDD)
	binary.BigEndian.PutUint16(data[6:8], 200)
	writeFile(t, dir, "beacon_transmit_sequence.bin", data)

	store := NewFileStore(dir)
	entries, err := store.BeaconTransmitSequence()
	if err != nil {
		t.Fatalf("BeaconTransmitSequence() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Channel != 7 {
		t.Errorf("Channel = %d, want 7", e.Channel)
	}
	if e.Params&0x04 == 0 {
		t.Error("expected beacon_params & 0x04 set")
	}
	if e.NextInterval != 200 {
		t.Errorf("NextInterval = %d, want 200", e.NextInterval)
	}
}

func TestFileStore_EndiannessRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := make([]byte, scheduleRecSize*2)
	binary.BigEndian.PutUint16(data[0:2], 0x1234)
	binary.BigEndian.PutUint16(data[2:4], 0x5678)
	binary.BigEndian.PutUint16(data[4:6], 0x9ABC)
	binary.BigEndian.PutUint16(data[6:8], 0xDEF0)
	writeFile(t, dir, "real_time_scheduler.bin", data)

	store := NewFileStore(dir)
	entries, err := store.RealTimeSchedule()
	if err != nil {
		t.Fatalf("RealTimeSchedule() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Mask != 0x1234 || entries[0].Value != 0x5678 {
		t.Errorf("entries[0] = %+v, want Mask=0x1234 Value=0x5678", entries[0])
	}
	if entries[1].Mask != 0x9ABC || entries[1].Value != 0xDEF0 {
		t.Errorf("entries[1] = %+v, want Mask=0x9ABC Value=0xDEF0", entries[1])
	}
}

func TestScanEntry_RxTimeoutExpansion(t *testing.T) {
	// exponent=0, mantissa=0 -> (0+1)<<0 = 1
	e := ScanEntry{Flags: 0x00}
	if got := e.RxTimeout(); got != 1 {
		t.Errorf("RxTimeout() = %d, want 1", got)
	}

	// bit6 set applies x1024
	e = ScanEntry{Flags: 0x40}
	if got := e.RxTimeout(); got != 1024 {
		t.Errorf("RxTimeout() with x1024 = %d, want 1024", got)
	}

	// background scan flag doesn't affect timeout
	e = ScanEntry{Flags: 0x80}
	if !e.Background() {
		t.Error("Background() = false, want true")
	}
}
