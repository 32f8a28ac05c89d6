package dbstore

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NetworkSettingsRecord is the single-row table backing ISF 0/1: the
// device's network identity plus the supported-settings mask.
type NetworkSettingsRecord struct {
	ID                 uint   `gorm:"primaryKey"`
	SchemaVersion      string `gorm:"size:36"`
	Subnet             uint8
	BSubnet            uint8
	DDFlags            uint8
	BAttempts          uint8
	Active             uint16
	HoldLimit          uint16
	SupportedSettings  uint16
}

// BeforeCreate stamps a fresh schema-version UUID, the way the teacher's
// GORM models identify a record's provisioning batch.
func (r *NetworkSettingsRecord) BeforeCreate(tx *gorm.DB) error {
	if r.SchemaVersion == "" {
		r.SchemaVersion = uuid.NewString()
	}
	return nil
}

// SequenceKind distinguishes hold-scan from sleep-scan rows sharing one
// table.
type SequenceKind string

const (
	SequenceHoldScan  SequenceKind = "hold"
	SequenceSleepScan SequenceKind = "sleep"
)

// ScanEntryRecord is one row of the hold-scan or sleep-scan sequence,
// ordered by Position within its Kind.
type ScanEntryRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Kind         SequenceKind `gorm:"index"`
	Position     int    `gorm:"index"`
	Channel      uint8
	Flags        uint8
	NextInterval uint16
}

// BeaconEntryRecord is one row of the beacon-transmit sequence.
type BeaconEntryRecord struct {
	ID           uint `gorm:"primaryKey"`
	Position     int  `gorm:"index"`
	Channel      uint8
	Params       uint8
	CallHi       uint16
	CallLo       uint16
	NextInterval uint16
}

// ScheduleEntryRecord is one row of the RTC schedule.
type ScheduleEntryRecord struct {
	ID       uint `gorm:"primaryKey"`
	Position int  `gorm:"index"`
	Mask     uint16
	Value    uint16
}
