package models

import "time"

const (
	PreferenceCategory = "preferred_category"
	PreferenceLanguage = "language"
)

type Preference struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Preference) TableName() string {
	return "preferences"
}
