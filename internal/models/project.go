package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusOnHold    ProjectStatus = "On Hold"
	ProjectStatusCancelled ProjectStatus = "Cancelled"
)

// Project is a construction project tracked for budget and schedule health.
// The risk scoring engine consumes it read-only.
type Project struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Budget      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"budget"`
	Spent       decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"spent"`
	Progress    int             `gorm:"not null;default:0" json:"progress"`
	Status      ProjectStatus   `gorm:"not null;default:'Active';index" json:"status"`
	StartDate   *time.Time      `json:"start_date,omitempty"`
	EndDate     *time.Time      `json:"end_date,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Invoices []Invoice `gorm:"foreignKey:ProjectID" json:"invoices,omitempty"`
}
