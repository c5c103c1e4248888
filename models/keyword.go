package models

import (
	"time"

	"gorm.io/datatypes"
)

// Keyword is a controlled-vocabulary research topic. Name holds the
// normalized form (lowercase, diacritics stripped) used for identity;
// DisplayName keeps the editor-facing spelling. Unapproved keywords exist in
// the table but are invisible to linking and suggestions.
type Keyword struct {
	KeywordID   uint   `gorm:"primaryKey;column:keyword_id" json:"keyword_id"`
	Name        string `gorm:"column:name;type:varchar(255);uniqueIndex:uniq_keyword_name;not null" json:"name"`
	DisplayName string `gorm:"column:display_name;type:varchar(255);not null" json:"display_name"`
	Slug        string `gorm:"column:slug;type:varchar(255);uniqueIndex:uniq_keyword_slug;not null" json:"slug"`

	Aliases     datatypes.JSONSlice[string] `gorm:"column:aliases" json:"aliases,omitempty"`
	Description *string                     `gorm:"column:description;type:text" json:"description,omitempty"`
	IsApproved  bool                        `gorm:"column:is_approved;not null;default:false" json:"is_approved"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Keyword) TableName() string {
	return "keywords"
}
