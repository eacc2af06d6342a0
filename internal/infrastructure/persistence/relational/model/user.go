package model

import "time"

type User struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(120);not null"`
	Email     *string   `gorm:"column:email;type:varchar(255);uniqueIndex"`
	Role      string    `gorm:"column:role;type:varchar(16);not null"`
	Block     string    `gorm:"column:block;type:varchar(32);not null;default:''"`
	Apartment string    `gorm:"column:apartment;type:varchar(32);not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (User) TableName() string {
	return "users"
}
