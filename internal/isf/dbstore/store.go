package dbstore

import (
	"fmt"
	"sort"

	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/isf"
)

// Store adapts a *DB into the isf.Store interface, mirroring the
// teacher's DMRDatabaseAdapter drop-in-replacement pattern for a
// file-based lookup.
type Store struct {
	db *DB
}

// NewStore wraps an opened database as an isf.Store.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

var _ isf.Store = (*Store)(nil)

func (s *Store) NetworkSettings() (dllcomm.NetworkConfig, error) {
	var rec NetworkSettingsRecord
	if err := s.db.gormDB.First(&rec).Error; err != nil {
		return dllcomm.NetworkConfig{}, fmt.Errorf("dbstore: network settings: %w", err)
	}
	return dllcomm.NetworkConfig{
		Subnet:    rec.Subnet,
		BSubnet:   rec.BSubnet,
		DDFlags:   rec.DDFlags,
		BAttempts: rec.BAttempts,
		Active:    dllcomm.DeviceClass(rec.Active),
		HoldLimit: rec.HoldLimit,
	}, nil
}

func (s *Store) SupportedSettingsMask() (uint16, error) {
	var rec NetworkSettingsRecord
	if err := s.db.gormDB.First(&rec).Error; err != nil {
		return 0, fmt.Errorf("dbstore: supported settings mask: %w", err)
	}
	return rec.SupportedSettings, nil
}

func (s *Store) HoldScanSequence() ([]isf.ScanEntry, error) {
	return s.readScanSequence(SequenceHoldScan)
}

func (s *Store) SleepScanSequence() ([]isf.ScanEntry, error) {
	return s.readScanSequence(SequenceSleepScan)
}

func (s *Store) readScanSequence(kind SequenceKind) ([]isf.ScanEntry, error) {
	var recs []ScanEntryRecord
	if err := s.db.gormDB.Where("kind = ?", kind).Order("position asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("dbstore: scan sequence %s: %w", kind, err)
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Position < recs[j].Position })

	entries := make([]isf.ScanEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, isf.ScanEntry{
			Channel:      r.Channel,
			Flags:        r.Flags,
			NextInterval: r.NextInterval,
		})
	}
	return entries, nil
}

func (s *Store) BeaconTransmitSequence() ([]isf.BeaconEntry, error) {
	var recs []BeaconEntryRecord
	if err := s.db.gormDB.Order("position asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("dbstore: beacon transmit sequence: %w", err)
	}

	entries := make([]isf.BeaconEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, isf.BeaconEntry{
			Channel:      r.Channel,
			Params:       r.Params,
			CallHi:       r.CallHi,
			CallLo:       r.CallLo,
			NextInterval: r.NextInterval,
		})
	}
	return entries, nil
}

func (s *Store) RealTimeSchedule() ([]isf.ScheduleEntry, error) {
	var recs []ScheduleEntryRecord
	if err := s.db.gormDB.Order("position asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("dbstore: real time schedule: %w", err)
	}

	entries := make([]isf.ScheduleEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, isf.ScheduleEntry{Mask: r.Mask, Value: r.Value})
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
