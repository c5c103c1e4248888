package models

import (
	"time"

	"gorm.io/gorm"
)

// Scholar is a researcher profile in the directory. The aggregate fields
// (publication_count, related_publication_count, frequent_contributor) are
// derived from the publication link set and recomputed on every write that
// touches links; they are never edited directly.
type Scholar struct {
	ScholarID      uint   `gorm:"primaryKey;column:scholar_id" json:"scholar_id"`
	FullName       string `gorm:"column:full_name;type:varchar(255);not null" json:"full_name"`
	NormalizedName string `gorm:"column:normalized_name;type:varchar(255);index:idx_scholar_normalized_name" json:"-"`
	Slug           string `gorm:"column:slug;type:varchar(255);uniqueIndex:uniq_scholar_slug;not null" json:"slug"`

	Affiliation *string `gorm:"column:affiliation;type:varchar(255)" json:"affiliation,omitempty"`
	Position    *string `gorm:"column:position;type:varchar(255)" json:"position,omitempty"`
	Email       *string `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	Bio         *string `gorm:"column:bio;type:text" json:"bio,omitempty"`

	PublicationCount        int  `gorm:"column:publication_count;not null;default:0" json:"publication_count"`
	RelatedPublicationCount int  `gorm:"column:related_publication_count;not null;default:0" json:"related_publication_count"`
	FrequentContributor     bool `gorm:"column:frequent_contributor;not null;default:false" json:"frequent_contributor"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`

	Keywords     []Keyword     `gorm:"many2many:scholar_keywords;foreignKey:ScholarID;joinForeignKey:ScholarID;References:KeywordID;joinReferences:KeywordID" json:"keywords,omitempty"`
	Publications []Publication `gorm:"many2many:scholar_publications;foreignKey:ScholarID;joinForeignKey:ScholarID;References:PublicationID;joinReferences:PublicationID" json:"publications,omitempty"`
}

func (Scholar) TableName() string {
	return "scholars"
}

// ScholarPublication is a row in the scholar<->publication link table. A
// single row carries the reference in both directions, so the two sides can
// never disagree. Only the reconciler writes and deletes these rows; the
// linkers add with on-conflict-do-nothing.
type ScholarPublication struct {
	ScholarID     uint `gorm:"primaryKey;column:scholar_id" json:"scholar_id"`
	PublicationID uint `gorm:"primaryKey;column:publication_id" json:"publication_id"`
}

func (ScholarPublication) TableName() string {
	return "scholar_publications"
}

// ScholarKeyword is a row in the scholar<->keyword link table.
type ScholarKeyword struct {
	ScholarID uint `gorm:"primaryKey;column:scholar_id" json:"scholar_id"`
	KeywordID uint `gorm:"primaryKey;column:keyword_id" json:"keyword_id"`
}

func (ScholarKeyword) TableName() string {
	return "scholar_keywords"
}
