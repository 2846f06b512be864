package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Department: kitchen, service, cashier, management...
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Position: chef, waiter, cashier, shift manager...
type Position struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `gorm:"size:100;uniqueIndex;not null" json:"name"`
	DepartmentID *uint       `json:"department_id"`
	Department   *Department `json:"department,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
	StaffOnLeave  StaffStatus = "on_leave"
)

type StaffProfile struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:255;not null" json:"full_name"`
	Email    string `gorm:"size:255" json:"email"`
	Phone    string `gorm:"size:50" json:"phone"`

	PositionID   *uint       `json:"position_id"`
	Position     *Position   `gorm:"constraint:OnDelete:SET NULL" json:"position,omitempty"`
	DepartmentID *uint       `json:"department_id"`
	Department   *Department `gorm:"constraint:OnDelete:SET NULL" json:"department,omitempty"`

	Salary    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"salary"`
	StartDate *time.Time      `gorm:"type:date" json:"start_date"`

	Status          StaffStatus `gorm:"size:20;not null;default:active" json:"status"`
	Performance     uint        `gorm:"not null;default:0" json:"performance"` // 0..100
	ShiftsThisMonth uint        `gorm:"not null;default:0" json:"shifts_this_month"`
	TotalHours      uint        `gorm:"not null;default:0" json:"total_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
