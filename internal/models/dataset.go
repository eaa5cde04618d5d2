package models

import "time"

type Modality string

const (
	ModalityEHR            Modality = "ehr"
	ModalityRadiology      Modality = "radiology"
	ModalityHistopathology Modality = "histopathology"
)

// Modalities lists every modality in display order.
var Modalities = []Modality{ModalityEHR, ModalityRadiology, ModalityHistopathology}

type Dataset struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  *string   `gorm:"type:text" json:"description"`
	Modality     Modality  `gorm:"type:varchar(20);not null;index" json:"modality"`
	PatientCount int64     `gorm:"not null;default:0" json:"patientCount"`
	SizeBytes    int64     `gorm:"not null;default:0" json:"sizeBytes"`
	OwnerID      uint64    `gorm:"not null" json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type NewDataset struct {
	Name         string
	Description  *string
	Modality     Modality
	PatientCount int64
	SizeBytes    int64
	OwnerID      uint64
}

type FileRecord struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	DatasetID  uint64    `gorm:"not null;index" json:"datasetId"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	FileType   string    `gorm:"type:varchar(50);not null" json:"fileType"`
	SizeBytes  int64     `gorm:"not null" json:"sizeBytes"`
	URL        string    `gorm:"type:text;not null" json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// TableName keeps the table name short; "file_records" reads oddly next to datasets.
func (FileRecord) TableName() string {
	return "files"
}

type NewFile struct {
	DatasetID uint64
	Name      string
	FileType  string
	SizeBytes int64
	URL       string
}
