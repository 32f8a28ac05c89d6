package isf

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbehnke/dash7kernel/internal/dllcomm"
)

const (
	scanRecordSize   = 4
	beaconRecordSize = 8
	scheduleRecSize  = 4
)

// FileStore reads ISF elements from flat binary files in a directory,
// one file per element, matching the layout a provisioning tool would
// write directly to flash. All multi-byte fields are big-endian.
type FileStore struct {
	dir string
}

// NewFileStore opens a file-backed ISF store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// NetworkSettings reads ISF 0.
func (s *FileStore) NetworkSettings() (dllcomm.NetworkConfig, error) {
	data, err := os.ReadFile(s.path("isf0.bin"))
	if err != nil {
		return dllcomm.NetworkConfig{}, fmt.Errorf("isf: read isf0: %w", err)
	}
	if len(data) < 10 {
		return dllcomm.NetworkConfig{}, fmt.Errorf("isf: isf0 too short: got %d bytes, want >= 10", len(data))
	}

	return dllcomm.NetworkConfig{
		Subnet:    data[0],
		BSubnet:   data[1],
		Active:    dllcomm.DeviceClass(binary.BigEndian.Uint16(data[4:6])),
		DDFlags:   data[6],
		BAttempts: data[7],
		HoldLimit: binary.BigEndian.Uint16(data[8:10]),
	}, nil
}

// SupportedSettingsMask reads ISF 1.
func (s *FileStore) SupportedSettingsMask() (uint16, error) {
	data, err := os.ReadFile(s.path("isf1.bin"))
	if err != nil {
		return 0, fmt.Errorf("isf: read isf1: %w", err)
	}
	if len(data) < 10 {
		return 0, fmt.Errorf("isf: isf1 too short: got %d bytes, want >= 10", len(data))
	}
	return binary.BigEndian.Uint16(data[8:10]), nil
}

// HoldScanSequence reads the hold-scan sequence ISF.
func (s *FileStore) HoldScanSequence() ([]ScanEntry, error) {
	return s.readScanSequence("hold_scan_sequence.bin")
}

// SleepScanSequence reads the sleep-scan sequence ISF.
func (s *FileStore) SleepScanSequence() ([]ScanEntry, error) {
	return s.readScanSequence("sleep_scan_sequence.bin")
}

func (s *FileStore) readScanSequence(name string) ([]ScanEntry, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("isf: read %s: %w", name, err)
	}
	if len(data)%scanRecordSize != 0 {
		return nil, fmt.Errorf("isf: %s length %d not a multiple of record size %d", name, len(data), scanRecordSize)
	}

	entries := make([]ScanEntry, 0, len(data)/scanRecordSize)
	for off := 0; off+scanRecordSize <= len(data); off += scanRecordSize {
		entries = append(entries, ScanEntry{
			Channel:      data[off],
			Flags:        data[off+1],
			NextInterval: binary.BigEndian.Uint16(data[off+2 : off+4]),
		})
	}
	return entries, nil
}

// BeaconTransmitSequence reads the beacon-transmit sequence ISF.
func (s *FileStore) BeaconTransmitSequence() ([]BeaconEntry, error) {
	data, err := os.ReadFile(s.path("beacon_transmit_sequence.bin"))
	if err != nil {
		return nil, fmt.Errorf("isf: read beacon_transmit_sequence: %w", err)
	}
	if len(data)%beaconRecordSize != 0 {
		return nil, fmt.Errorf("isf: beacon_transmit_sequence length %d not a multiple of record size %d", len(data), beaconRecordSize)
	}

	entries := make([]BeaconEntry, 0, len(data)/beaconRecordSize)
	for off := 0; off+beaconRecordSize <= len(data); off += beaconRecordSize {
		entries = append(entries, BeaconEntry{
			Channel:      data[off],
			Params:       data[off+1],
			CallHi:       binary.BigEndian.Uint16(data[off+2 : off+4]),
			CallLo:       binary.BigEndian.Uint16(data[off+4 : off+6]),
			NextInterval: binary.BigEndian.Uint16(data[off+6 : off+8]),
		})
	}
	return entries, nil
}

// RealTimeSchedule reads the RTC schedule ISF.
func (s *FileStore) RealTimeSchedule() ([]ScheduleEntry, error) {
	data, err := os.ReadFile(s.path("real_time_scheduler.bin"))
	if err != nil {
		return nil, fmt.Errorf("isf: read real_time_scheduler: %w", err)
	}
	if len(data)%scheduleRecSize != 0 {
		return nil, fmt.Errorf("isf: real_time_scheduler length %d not a multiple of record size %d", len(data), scheduleRecSize)
	}

	entries := make([]ScheduleEntry, 0, len(data)/scheduleRecSize)
	for off := 0; off+scheduleRecSize <= len(data); off += scheduleRecSize {
		entries = append(entries, ScheduleEntry{
			Mask:  binary.BigEndian.Uint16(data[off : off+2]),
			Value: binary.BigEndian.Uint16(data[off+2 : off+4]),
		})
	}
	return entries, nil
}

// Close is a no-op for the file store: there is no handle held open
// between reads.
func (s *FileStore) Close() error { return nil }
