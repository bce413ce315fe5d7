package models

import "gorm.io/gorm"

// Project groups a user's todos. Completed is derived state: true only while
// the project has at least one todo and every one of them is completed. It is
// recomputed after each todo mutation that touches the project.
type Project struct {
	gorm.Model

	UserID      uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	Completed   bool `gorm:"not null;default:false"`

	// Relationships
	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Todos []Todo `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
