package services

import (
	"errors"
	"fmt"
	"strings"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PublicationService backs the publication CRUD endpoints. Creation runs the
// same duplicate detection as inline linking; deletion removes link rows and
// recomputes every affected scholar's aggregates in the same transaction.
type PublicationService struct {
	db *gorm.DB
}

func NewPublicationService(db *gorm.DB) *PublicationService {
	if db == nil {
		db = config.DB
	}
	return &PublicationService{db: db}
}

// Get returns a publication with its contributor set populated.
func (s *PublicationService) Get(id uint) (*models.Publication, error) {
	var pub models.Publication
	err := s.db.Preload("Scholars").Where("publication_id = ?", id).First(&pub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: publication %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// List returns paginated publications, optionally filtered by a title search.
func (s *PublicationService) List(search string, limit, offset int) ([]models.Publication, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.Model(&models.Publication{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + utils.NormalizeTitle(search) + "%"
		q = q.Where("normalized_title LIKE ? OR doi = ?", like, search)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pubs []models.Publication
	err := q.Order("year DESC, publication_id DESC").
		Limit(limit).
		Offset(offset).
		Find(&pubs).Error
	if err != nil {
		return nil, 0, err
	}
	return pubs, total, nil
}

// Create inserts a new publication after duplicate detection. When the
// payload matches an existing record, that record is returned with
// created=false instead of inserting a second one.
func (s *PublicationService) Create(input PublicationInput) (*models.Publication, bool, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, false, fmt.Errorf("%w: title is required", ErrValidation)
	}

	var pub *models.Publication
	var created bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		linker := NewPublicationLinker(tx)
		p, c, _, err := linker.createOrAttach(input)
		if err != nil {
			return err
		}
		pub, created = p, c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return pub, created, nil
}

// Update applies the payload to an existing publication, re-normalizing the
// title and canonicalizing the type. The relatedness flag may move between
// all three states (true/false/unknown), so affected scholars' aggregates
// are recomputed afterwards.
func (s *PublicationService) Update(id uint, input PublicationInput) (*models.Publication, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	var pub models.Publication
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("publication_id = ?", id).First(&pub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: publication %d", ErrNotFound, id)
			}
			return err
		}

		pub.Title = strings.TrimSpace(input.Title)
		pub.NormalizedTitle = utils.NormalizeTitle(input.Title)
		pub.Authors = datatypes.NewJSONSlice(input.Authors)
		pub.Year = input.Year
		pub.Venue = input.Venue
		pub.CitationText = input.CitationText
		pub.Abstract = input.Abstract
		pub.DOI = input.DOI
		pub.URL = input.URL
		pub.Related = input.Related
		pub.Tags = datatypes.NewJSONSlice(input.Tags)
		if input.PubType != nil {
			canonical := CanonicalPubType(*input.PubType)
			pub.PubType = &canonical
		} else {
			pub.PubType = nil
		}

		if err := tx.Save(&pub).Error; err != nil {
			if IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: another publication already uses this DOI", ErrValidation)
			}
			return err
		}

		scholarIDs, err := NewReferenceReconciler(tx).currentScholarIDs(id)
		if err != nil {
			return err
		}
		for _, scholarID := range scholarIDs {
			if _, err := refreshScholarAggregates(tx, scholarID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pub, nil
}

// Delete removes the publication, its link rows, and recomputes the
// aggregates of every scholar that was linked to it.
func (s *PublicationService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var pub models.Publication
		if err := tx.Where("publication_id = ?", id).First(&pub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: publication %d", ErrNotFound, id)
			}
			return err
		}

		scholarIDs, err := NewReferenceReconciler(tx).RemovePublicationLinks(id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&pub).Error; err != nil {
			return err
		}

		for _, scholarID := range scholarIDs {
			if _, err := refreshScholarAggregates(tx, scholarID); err != nil {
				return err
			}
		}
		return nil
	})
}
