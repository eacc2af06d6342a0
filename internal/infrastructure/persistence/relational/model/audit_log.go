package model

import "time"

type AuditLog struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Action      string    `gorm:"column:action;type:varchar(64);not null;index"`
	EntityType  string    `gorm:"column:entity_type;type:varchar(64);not null"`
	EntityID    string    `gorm:"column:entity_id;type:varchar(36);not null;index"`
	PerformedBy string    `gorm:"column:performed_by;type:varchar(36);not null"`
	DetailsJSON *string   `gorm:"column:details;type:text"`
	IPAddress   *string   `gorm:"column:ip_address;type:varchar(64)"`
	UserAgent   *string   `gorm:"column:user_agent;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
