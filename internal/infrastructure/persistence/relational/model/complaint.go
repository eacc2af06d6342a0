package model

import "time"

type Complaint struct {
	ID          string     `gorm:"column:id;type:varchar(36);primaryKey"`
	AuthorID    string     `gorm:"column:author_id;type:varchar(36);not null;index:idx_complaints_author_created,priority:1"`
	Category    string     `gorm:"column:category;type:varchar(32);not null;index"`
	Urgency     string     `gorm:"column:urgency;type:varchar(16);not null"`
	Description string     `gorm:"column:description;type:text;not null"`
	Status      string     `gorm:"column:status;type:varchar(16);not null;index"`
	IsAnonymous bool       `gorm:"column:is_anonymous;not null;default:false"`
	Version     int64      `gorm:"column:version;not null;default:0"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_complaints_author_created,priority:2"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	DeletedAt   *time.Time `gorm:"column:deleted_at;index"`
}

func (Complaint) TableName() string {
	return "complaints"
}

type ComplaintStatusHistory struct {
	ID             string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ComplaintID    string    `gorm:"column:complaint_id;type:varchar(36);not null;index"`
	PreviousStatus string    `gorm:"column:previous_status;type:varchar(16);not null"`
	NewStatus      string    `gorm:"column:new_status;type:varchar(16);not null"`
	ChangedBy      string    `gorm:"column:changed_by;type:varchar(36);not null"`
	ChangedAt      time.Time `gorm:"column:changed_at;not null"`
	Reason         *string   `gorm:"column:reason;type:text"`
}

func (ComplaintStatusHistory) TableName() string {
	return "complaint_status_history"
}
