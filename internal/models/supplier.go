package models

import "time"

type Supplier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	ContactName string `gorm:"size:255" json:"contact_name"`
	Phone       string `gorm:"size:50" json:"phone"`
	Email       string `gorm:"size:255" json:"email"`
	Address     string `gorm:"size:255" json:"address"`
	Note        string `json:"note"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
