package contract

import "github.com/yukikurage/clinical-data-api/internal/models"

// Request bodies. The binding tags are the single input schema: handlers bind
// with them and the client validates with them before sending.

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,notpadded,min=3,max=50"`
	Password    string      `json:"password" binding:"required,min=8,bcryptlen"`
	Role        models.Role `json:"role" binding:"omitempty,oneof=admin researcher"`
	FullName    string      `json:"fullName" binding:"required"`
	Institution string      `json:"institution" binding:"required"`
	IsActive    *bool       `json:"isActive"`
}

// UpdateUserRequest is the partial form of CreateUserRequest.
type UpdateUserRequest struct {
	Username    *string      `json:"username" binding:"omitempty,notpadded,min=3,max=50"`
	Password    *string      `json:"password" binding:"omitempty,min=8,bcryptlen"`
	Role        *models.Role `json:"role" binding:"omitempty,oneof=admin researcher"`
	FullName    *string      `json:"fullName" binding:"omitempty,min=1"`
	Institution *string      `json:"institution" binding:"omitempty,min=1"`
	IsActive    *bool        `json:"isActive"`
}

type CreateDatasetRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  *string         `json:"description"`
	Modality     models.Modality `json:"modality" binding:"required,oneof=ehr radiology histopathology"`
	PatientCount int64           `json:"patientCount" binding:"gte=0"`
	SizeBytes    int64           `json:"sizeBytes" binding:"gte=0"`
	OwnerID      uint64          `json:"ownerId" binding:"required"`
}

// UploadFileRequest carries the scalar metadata of a simulated upload; every
// field is optional.
type UploadFileRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1"`
	Type *string `json:"type" binding:"omitempty,min=1"`
	Size *int64  `json:"size" binding:"omitempty,gte=0"`
}

type RunModelRequest struct {
	DatasetID uint64 `json:"datasetId" binding:"required"`
}
