package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Username     string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	// Preferences
	ProfilePic  string
	NotifyPush  bool   `gorm:"not null;default:false"`
	NotifyEmail bool   `gorm:"not null;default:false"`
	Theme       string `gorm:"not null;default:light"`
	DefaultView string `gorm:"not null;default:all"`
	Language    string `gorm:"not null;default:en"`

	// Relationships
	Projects []Project `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Todos    []Todo    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
