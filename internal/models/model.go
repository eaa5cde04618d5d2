package models

import "time"

type ModelStatus string

const (
	ModelStatusReady    ModelStatus = "ready"
	ModelStatusTraining ModelStatus = "training"
	ModelStatusRunning  ModelStatus = "running"
	ModelStatusFailed   ModelStatus = "failed"
)

// Model is a registered analysis model. Status is descriptive only; nothing in
// the API transitions it.
type Model struct {
	ID       uint64      `gorm:"primarykey" json:"id"`
	Name     string      `gorm:"type:varchar(255);not null" json:"name"`
	Type     string      `gorm:"type:varchar(50);not null" json:"type"`
	Modality string      `gorm:"type:varchar(20);not null" json:"modality"`
	Status   ModelStatus `gorm:"type:varchar(20);not null;default:'ready'" json:"status"`
	Accuracy *string     `gorm:"type:varchar(20)" json:"accuracy"`
	LastRun  *time.Time  `json:"lastRun"`
}

type NewModel struct {
	Name     string
	Type     string
	Modality string
	Status   ModelStatus
	Accuracy *string
	LastRun  *time.Time
}
