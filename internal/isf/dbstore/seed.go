package dbstore

import (
	"fmt"

	"github.com/dbehnke/dash7kernel/internal/dllcomm"
	"github.com/dbehnke/dash7kernel/internal/isf"
	"gorm.io/gorm"
)

// Seed writes a full ISF snapshot into the database, replacing any
// existing rows. It is used by provisioning tools and by tests that
// want to exercise the database-backed store without a flat-file
// fixture.
func (s *Store) Seed(net dllcomm.NetworkConfig, supported uint16, hold, sleep []isf.ScanEntry, beacons []isf.BeaconEntry, schedule []isf.ScheduleEntry) error {
	tx := s.db.gormDB.Begin()

	if err := tx.Where("1 = 1").Delete(&NetworkSettingsRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("dbstore: seed clear network settings: %w", err)
	}
	if err := tx.Create(&NetworkSettingsRecord{
		Subnet:            net.Subnet,
		BSubnet:           net.BSubnet,
		DDFlags:           net.DDFlags,
		BAttempts:         net.BAttempts,
		Active:            uint16(net.Active),
		HoldLimit:         net.HoldLimit,
		SupportedSettings: supported,
	}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("dbstore: seed network settings: %w", err)
	}

	if err := tx.Where("1 = 1").Delete(&ScanEntryRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("dbstore: seed clear scan entries: %w", err)
	}
	if err := seedScanEntries(tx, SequenceHoldScan, hold); err != nil {
		tx.Rollback()
		return err
	}
	if err := seedScanEntries(tx, SequenceSleepScan, sleep); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("1 = 1").Delete(&BeaconEntryRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("dbstore: seed clear beacon entries: %w", err)
	}
	for i, b := range beacons {
		if err := tx.Create(&BeaconEntryRecord{
			Position:     i,
			Channel:      b.Channel,
			Params:       b.Params,
			CallHi:       b.CallHi,
			CallLo:       b.CallLo,
			NextInterval: b.NextInterval,
		}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("dbstore: seed beacon entry %d: %w", i, err)
		}
	}

	if err := tx.Where("1 = 1").Delete(&ScheduleEntryRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("dbstore: seed clear schedule entries: %w", err)
	}
	for i, sc := range schedule {
		if err := tx.Create(&ScheduleEntryRecord{Position: i, Mask: sc.Mask, Value: sc.Value}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("dbstore: seed schedule entry %d: %w", i, err)
		}
	}

	return tx.Commit().Error
}

func seedScanEntries(tx *gorm.DB, kind SequenceKind, entries []isf.ScanEntry) error {
	for i, e := range entries {
		rec := &ScanEntryRecord{
			Kind:         kind,
			Position:     i,
			Channel:      e.Channel,
			Flags:        e.Flags,
			NextInterval: e.NextInterval,
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("dbstore: seed %s scan entry %d: %w", kind, i, err)
		}
	}
	return nil
}
