package services

import (
	"errors"
	"strings"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"gorm.io/gorm"
)

// IdentityResolver decides whether a candidate keyword or publication already
// exists and returns the canonical record instead of letting callers create a
// duplicate. All lookups are pure reads; "not found" is a normal nil result,
// not an error, so callers choose between missing-means-skip and
// missing-means-fail.
type IdentityResolver struct {
	db *gorm.DB
}

func NewIdentityResolver(db *gorm.DB) *IdentityResolver {
	if db == nil {
		db = config.DB
	}
	return &IdentityResolver{db: db}
}

// ResolveKeywordBySlug returns the approved keyword with the given slug.
// Unapproved keywords are reported as missing, never silently linked.
func (r *IdentityResolver) ResolveKeywordBySlug(slug string) (*models.Keyword, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}

	var kw models.Keyword
	err := r.db.Where("slug = ? AND is_approved = ?", slug, true).First(&kw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

// ResolveKeywordByID returns the approved keyword with the given id.
func (r *IdentityResolver) ResolveKeywordByID(id uint) (*models.Keyword, error) {
	if id == 0 {
		return nil, nil
	}

	var kw models.Keyword
	err := r.db.Where("keyword_id = ? AND is_approved = ?", id, true).First(&kw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

// ResolveKeywordByName looks a keyword up by its normalized name regardless
// of approval state. Used for new-keyword dedup, where an unapproved
// collision must still block insertion of a second record.
func (r *IdentityResolver) ResolveKeywordByName(name string) (*models.Keyword, error) {
	normalized := utils.NormalizeName(name)
	if normalized == "" {
		return nil, nil
	}

	var kw models.Keyword
	err := r.db.Where("name = ?", normalized).First(&kw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kw, nil
}

// FindPublicationDuplicate returns the existing publication that represents
// the same real-world work as the candidate, or nil.
//
// A non-empty DOI is authoritative: it is checked first, case-sensitive, and
// a title match never short-circuits it. Only when the candidate carries no
// DOI does the title/author heuristic run: case-insensitive trimmed title
// plus an identical ordered author list.
func (r *IdentityResolver) FindPublicationDuplicate(doi string, title string, authors []string) (*models.Publication, error) {
	doi = strings.TrimSpace(doi)
	if doi != "" {
		var pub models.Publication
		err := r.db.Where("doi = ?", doi).First(&pub).Error
		if err == nil {
			return &pub, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, nil
	}

	normalized := utils.NormalizeTitle(title)
	if normalized == "" {
		return nil, nil
	}

	var candidates []models.Publication
	if err := r.db.Where("normalized_title = ?", normalized).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].SameAuthors(authors) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
