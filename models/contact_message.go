package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	MessageID uint           `gorm:"primaryKey;column:message_id" json:"message_id"`
	Name      string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string         `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Subject   string         `gorm:"column:subject;type:varchar(255)" json:"subject"`
	Body      string         `gorm:"column:body;type:text;not null" json:"body"`
	Handled   bool           `gorm:"column:handled;not null;default:0" json:"handled"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
