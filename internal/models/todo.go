package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Todo struct {
	gorm.Model

	UserID    uint   `gorm:"not null;index"`
	ProjectID *uint  `gorm:"index"` // nil for todos not assigned to a project
	Title     string `gorm:"not null"`
	Priority  string `gorm:"not null;default:low"`
	DueDate   *datatypes.Date
	Completed bool `gorm:"not null;default:false"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
