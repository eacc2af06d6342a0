package model

import "time"

type KanbanBoard struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Title       string    `gorm:"column:title;type:varchar(120);not null;uniqueIndex"`
	Description string    `gorm:"column:description;type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (KanbanBoard) TableName() string {
	return "kanban_boards"
}

type KanbanColumn struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	BoardID   string    `gorm:"column:board_id;type:varchar(36);not null;uniqueIndex:idx_kanban_columns_board_name,priority:1"`
	Name      string    `gorm:"column:name;type:varchar(120);not null;uniqueIndex:idx_kanban_columns_board_name,priority:2"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (KanbanColumn) TableName() string {
	return "kanban_columns"
}

type KanbanCard struct {
	ID          string    `gorm:"column:id;type:varchar(36);primaryKey"`
	ColumnID    string    `gorm:"column:column_id;type:varchar(36);not null;index"`
	ComplaintID *string   `gorm:"column:complaint_id;type:varchar(36);uniqueIndex"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text;not null;default:''"`
	Order       int       `gorm:"column:card_order;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (KanbanCard) TableName() string {
	return "kanban_cards"
}
