package models

import "time"

const (
	AuditActionLogin    = "LOGIN"
	AuditActionLogout   = "LOGOUT"
	AuditActionCreate   = "CREATE"
	AuditActionUpdate   = "UPDATE"
	AuditActionDelete   = "DELETE"
	AuditActionUpload   = "UPLOAD"
	AuditActionModelRun = "MODEL_RUN"
)

type AuditLog struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	UserID    uint64     `gorm:"not null;index" json:"userId"`
	Action    string     `gorm:"type:varchar(50);not null" json:"action"`
	Resource  string     `gorm:"type:varchar(255);not null" json:"resource"`
	Details   *string    `gorm:"type:text" json:"details"`
	Timestamp *time.Time `gorm:"column:occurred_at;index" json:"timestamp"`
}

type NewAuditLog struct {
	UserID   uint64
	Action   string
	Resource string
	Details  *string
}
