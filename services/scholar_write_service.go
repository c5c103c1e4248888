package services

import (
	"errors"
	"fmt"
	"strings"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"gorm.io/gorm"
)

// ScholarInput is the single structured request for a scholar create or
// update: scalar fields plus the keyword and publication references to link.
type ScholarInput struct {
	FullName    string  `json:"full_name" binding:"required"`
	Slug        string  `json:"slug"`
	Affiliation *string `json:"affiliation,omitempty"`
	Position    *string `json:"position,omitempty"`
	Email       *string `json:"email,omitempty"`
	Bio         *string `json:"bio,omitempty"`

	KeywordSlugs    []string           `json:"keyword_slugs,omitempty"`
	KeywordIDs      []uint             `json:"keyword_ids,omitempty"`
	NewKeywords     []KeywordInput     `json:"new_keywords,omitempty"`
	PublicationIDs  []uint             `json:"publication_ids,omitempty"`
	NewPublications []PublicationInput `json:"new_publications,omitempty"`
}

// ScholarWriteResult reports what the linking pipeline did: which records
// were created vs reused, and the non-fatal warnings accumulated on the way.
type ScholarWriteResult struct {
	CreatedKeywords     []models.Keyword     `json:"created_keywords"`
	ExistingKeywords    []models.Keyword     `json:"existing_keywords"`
	TotalKeywords       int                  `json:"total_keywords"`
	CreatedPublications []models.Publication `json:"created_publications"`
	LinkedPublications  []models.Publication `json:"linked_publications"`
	TotalPublications   int                  `json:"total_publications"`
	Warnings            []string             `json:"warnings"`
}

// ScholarWriteService is the transaction coordinator for scholar writes. A
// create or update runs resolve-keywords, resolve-publications, reconcile,
// recompute-aggregates and persist-scholar inside one transaction; any
// fatal failure rolls back every effect, including keywords and publications
// created earlier in the same request. Warnings never abort.
type ScholarWriteService struct {
	db *gorm.DB
}

func NewScholarWriteService(db *gorm.DB) *ScholarWriteService {
	if db == nil {
		db = config.DB
	}
	return &ScholarWriteService{db: db}
}

// Create inserts a new scholar with its full link set.
func (s *ScholarWriteService) Create(input ScholarInput) (*models.Scholar, *ScholarWriteResult, error) {
	if err := validateScholarInput(input); err != nil {
		return nil, nil, err
	}

	var scholar *models.Scholar
	var result *ScholarWriteResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slug := utils.Slugify(input.Slug)
		if slug == "" {
			slug = utils.Slugify(input.FullName)
		}

		scholar = &models.Scholar{
			FullName:       strings.TrimSpace(input.FullName),
			NormalizedName: utils.NormalizeName(input.FullName),
			Slug:           slug,
			Affiliation:    input.Affiliation,
			Position:       input.Position,
			Email:          input.Email,
			Bio:            input.Bio,
		}
		if err := tx.Create(scholar).Error; err != nil {
			if IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: slug %q already in use", ErrValidation, slug)
			}
			return err
		}

		var err error
		result, err = s.linkAndReconcile(tx, scholar, input)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	populated, err := s.load(scholar.ScholarID)
	if err != nil {
		return nil, nil, err
	}
	return populated, result, nil
}

// Update applies scalar changes and replaces the scholar's link sets with
// the ones the request describes.
func (s *ScholarWriteService) Update(scholarID uint, input ScholarInput) (*models.Scholar, *ScholarWriteResult, error) {
	if err := validateScholarInput(input); err != nil {
		return nil, nil, err
	}

	var scholar models.Scholar
	var result *ScholarWriteResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scholar_id = ?", scholarID).First(&scholar).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: scholar %d", ErrNotFound, scholarID)
			}
			return err
		}

		scholar.FullName = strings.TrimSpace(input.FullName)
		scholar.NormalizedName = utils.NormalizeName(input.FullName)
		scholar.Affiliation = input.Affiliation
		scholar.Position = input.Position
		scholar.Email = input.Email
		scholar.Bio = input.Bio

		// Slug uniqueness is enforced by the index; a collision surfaces when
		// the document is persisted at the end of the pipeline and rolls the
		// whole transaction back.
		if slug := utils.Slugify(input.Slug); slug != "" {
			scholar.Slug = slug
		}

		var err error
		result, err = s.linkAndReconcile(tx, &scholar, input)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	populated, err := s.load(scholarID)
	if err != nil {
		return nil, nil, err
	}
	return populated, result, nil
}

// Delete removes the scholar and all of its link rows symmetrically, so no
// publication keeps a contributor reference to a deleted profile. Linked
// publications themselves survive.
func (s *ScholarWriteService) Delete(scholarID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var scholar models.Scholar
		if err := tx.Where("scholar_id = ?", scholarID).First(&scholar).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: scholar %d", ErrNotFound, scholarID)
			}
			return err
		}

		if err := NewReferenceReconciler(tx).RemoveScholarLinks(scholarID); err != nil {
			return err
		}

		// the row is soft-deleted but the slug index is not scoped to live
		// rows, so move the slug to a tombstone value to free it for reuse
		tombstone := fmt.Sprintf("%s-deleted-%d", scholar.Slug, scholar.ScholarID)
		if err := tx.Model(&scholar).Update("slug", tombstone).Error; err != nil {
			return err
		}
		return tx.Delete(&scholar).Error
	})
}

// linkAndReconcile runs the inner pipeline on the caller's transaction:
// keyword linking, publication linking, bidirectional reconciliation and
// aggregate recomputation, then persists the scholar document.
func (s *ScholarWriteService) linkAndReconcile(tx *gorm.DB, scholar *models.Scholar, input ScholarInput) (*ScholarWriteResult, error) {
	keywords, err := NewKeywordLinker(tx).Link(input.KeywordSlugs, input.KeywordIDs, input.NewKeywords)
	if err != nil {
		return nil, err
	}

	publications, err := NewPublicationLinker(tx).Link(input.PublicationIDs, input.NewPublications, scholar.ScholarID)
	if err != nil {
		return nil, err
	}

	reconciler := NewReferenceReconciler(tx)
	if err := reconciler.ReconcilePublications(scholar.ScholarID, publications.IDs()); err != nil {
		return nil, err
	}
	if err := reconciler.ReconcileKeywords(scholar.ScholarID, keywords.IDs()); err != nil {
		return nil, err
	}

	agg := RecomputeAggregates(publications.All())
	scholar.PublicationCount = agg.PublicationCount
	scholar.RelatedPublicationCount = agg.RelatedPublicationCount
	scholar.FrequentContributor = agg.FrequentContributor

	if err := tx.Save(scholar).Error; err != nil {
		if IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: slug %q already in use", ErrValidation, scholar.Slug)
		}
		return nil, err
	}

	result := &ScholarWriteResult{
		CreatedKeywords:     keywords.Created,
		ExistingKeywords:    keywords.Linked,
		TotalKeywords:       len(keywords.All()),
		CreatedPublications: publications.Created,
		LinkedPublications:  publications.Linked,
		TotalPublications:   len(publications.All()),
		Warnings:            append(keywords.Warnings, publications.Warnings...),
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return result, nil
}

func (s *ScholarWriteService) load(scholarID uint) (*models.Scholar, error) {
	var scholar models.Scholar
	err := s.db.Preload("Keywords").Preload("Publications").
		Where("scholar_id = ?", scholarID).
		First(&scholar).Error
	if err != nil {
		return nil, err
	}
	return &scholar, nil
}

func validateScholarInput(input ScholarInput) error {
	if strings.TrimSpace(input.FullName) == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	if input.Email != nil && *input.Email != "" && !utils.ValidateEmail(*input.Email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}
