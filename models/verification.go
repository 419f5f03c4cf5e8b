package models

import "time"

// Verification is the stored audit record of one label-verification run. The
// per-field records and the submitted claims are kept as JSON so the API can
// replay them without recomputation; the matching engine itself stays
// stateless.
type Verification struct {
	ID            string `gorm:"primaryKey;size:36"` // uuid
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint   `gorm:"index;not null"`
	User          User   `gorm:"foreignKey:UserID;references:ID"`
	ImageName     string `gorm:"size:255;not null"`
	StorePath     string `gorm:"column:store_path;size:512"`
	OverallStatus string `gorm:"size:16;index"`
	Claims        string `gorm:"type:jsonb"`
	Fields        string `gorm:"type:jsonb"`
	RawText       string `gorm:"type:text"`
	DurationMS    int64
}
