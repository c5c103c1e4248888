package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Canonical publication type vocabulary. Unknown legacy values are kept
// as-is rather than rejected.
const (
	PubTypeJournal    = "journal"
	PubTypeConference = "conference"
	PubTypeChapter    = "chapter"
	PubTypeReport     = "report"
	PubTypePreprint   = "preprint"
	PubTypeOther      = "other"
)

// Publication is a research output shared by any number of scholars. DOI is
// the authoritative identity when present; normalized_title backs the
// title/author duplicate heuristic for records without one. An empty-string
// DOI means "no DOI" and is stored as NULL so the unique index admits any
// number of them.
type Publication struct {
	PublicationID   uint   `gorm:"primaryKey;column:publication_id" json:"publication_id"`
	Title           string `gorm:"column:title;type:varchar(512);not null" json:"title"`
	NormalizedTitle string `gorm:"column:normalized_title;type:varchar(512);index:idx_publication_normalized_title" json:"-"`

	Authors datatypes.JSONSlice[string] `gorm:"column:authors" json:"authors,omitempty"`

	Year         *int    `gorm:"column:year" json:"year,omitempty"`
	Venue        *string `gorm:"column:venue;type:varchar(255)" json:"venue,omitempty"`
	CitationText *string `gorm:"column:citation_text;type:text" json:"citation_text,omitempty"`
	PubType      *string `gorm:"column:pub_type;type:varchar(64)" json:"pub_type,omitempty"`
	Abstract     *string `gorm:"column:abstract;type:text" json:"abstract,omitempty"`
	DOI          *string `gorm:"column:doi;type:varchar(255);uniqueIndex:uniq_publication_doi" json:"doi,omitempty"`
	URL          *string `gorm:"column:url;type:varchar(512)" json:"url,omitempty"`

	// Related is tri-state: nil means not yet classified and counts as
	// related; only an explicit false excludes the record from related
	// aggregates.
	Related *bool `gorm:"column:related" json:"related,omitempty"`

	Tags datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Scholars []Scholar `gorm:"many2many:scholar_publications;foreignKey:PublicationID;joinForeignKey:PublicationID;References:ScholarID;joinReferences:ScholarID" json:"scholars,omitempty"`
}

func (Publication) TableName() string {
	return "publications"
}

// IsRelated reports whether the publication counts toward related-work
// aggregates. Unset means related.
func (p Publication) IsRelated() bool {
	return p.Related == nil || *p.Related
}

// SameAuthors reports whether the given author list matches the stored one
// exactly: same count, same order, ignoring surrounding whitespace.
func (p Publication) SameAuthors(authors []string) bool {
	if len(p.Authors) != len(authors) {
		return false
	}
	for i := range authors {
		if strings.TrimSpace(p.Authors[i]) != strings.TrimSpace(authors[i]) {
			return false
		}
	}
	return true
}

// BeforeSave folds whitespace-only DOIs into NULL so they never collide on
// the unique index.
func (p *Publication) BeforeSave(tx *gorm.DB) error {
	if p.DOI != nil {
		trimmed := strings.TrimSpace(*p.DOI)
		if trimmed == "" {
			p.DOI = nil
		} else {
			p.DOI = &trimmed
		}
	}
	return nil
}
