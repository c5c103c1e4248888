package services

import (
	"research-directory-api/config"
	"research-directory-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceReconciler owns the scholar_publications and scholar_keywords
// link tables. It computes the add/remove delta between a scholar's current
// and desired link sets and replaces the set exactly, so a publication
// dropped from the edit form is actually unlinked rather than left dangling.
// No other code path removes rows from these tables.
type ReferenceReconciler struct {
	db *gorm.DB
}

func NewReferenceReconciler(db *gorm.DB) *ReferenceReconciler {
	if db == nil {
		db = config.DB
	}
	return &ReferenceReconciler{db: db}
}

// ReconcilePublications sets the scholar's publication link set to exactly
// desired. Each link row binds both directions at once, so neither side can
// end up holding a one-sided reference.
func (r *ReferenceReconciler) ReconcilePublications(scholarID uint, desired []uint) error {
	current, err := r.CurrentPublicationIDs(scholarID)
	if err != nil {
		return err
	}

	toAdd, toRemove := setDelta(current, desired)

	if len(toRemove) > 0 {
		err := r.db.Where("scholar_id = ? AND publication_id IN ?", scholarID, toRemove).
			Delete(&models.ScholarPublication{}).Error
		if err != nil {
			return err
		}
	}

	for _, id := range toAdd {
		link := models.ScholarPublication{ScholarID: scholarID, PublicationID: id}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}

	return nil
}

// ReconcileKeywords sets the scholar's keyword link set to exactly desired.
func (r *ReferenceReconciler) ReconcileKeywords(scholarID uint, desired []uint) error {
	var current []uint
	err := r.db.Model(&models.ScholarKeyword{}).
		Where("scholar_id = ?", scholarID).
		Pluck("keyword_id", &current).Error
	if err != nil {
		return err
	}

	toAdd, toRemove := setDelta(current, desired)

	if len(toRemove) > 0 {
		err := r.db.Where("scholar_id = ? AND keyword_id IN ?", scholarID, toRemove).
			Delete(&models.ScholarKeyword{}).Error
		if err != nil {
			return err
		}
	}

	for _, id := range toAdd {
		link := models.ScholarKeyword{ScholarID: scholarID, KeywordID: id}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
	}

	return nil
}

// CurrentPublicationIDs returns the scholar's current publication link set.
func (r *ReferenceReconciler) CurrentPublicationIDs(scholarID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ScholarPublication{}).
		Where("scholar_id = ?", scholarID).
		Pluck("publication_id", &ids).Error
	return ids, err
}

// currentScholarIDs returns the scholars currently linked to a publication.
func (r *ReferenceReconciler) currentScholarIDs(publicationID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ScholarPublication{}).
		Where("publication_id = ?", publicationID).
		Pluck("scholar_id", &ids).Error
	return ids, err
}

// RemoveScholarLinks deletes every link row that references the scholar.
// Used on scholar deletion so publications never keep a back-reference to a
// removed profile.
func (r *ReferenceReconciler) RemoveScholarLinks(scholarID uint) error {
	err := r.db.Where("scholar_id = ?", scholarID).Delete(&models.ScholarPublication{}).Error
	if err != nil {
		return err
	}
	return r.db.Where("scholar_id = ?", scholarID).Delete(&models.ScholarKeyword{}).Error
}

// RemoveKeywordLinks deletes every link row that references the keyword.
// Used on keyword deletion so no scholar keeps a reference to a removed
// topic.
func (r *ReferenceReconciler) RemoveKeywordLinks(keywordID uint) error {
	return r.db.Where("keyword_id = ?", keywordID).Delete(&models.ScholarKeyword{}).Error
}

// RemovePublicationLinks deletes every link row that references the
// publication and returns the ids of the scholars that were linked, so the
// caller can recompute their aggregates.
func (r *ReferenceReconciler) RemovePublicationLinks(publicationID uint) ([]uint, error) {
	var scholarIDs []uint
	err := r.db.Model(&models.ScholarPublication{}).
		Where("publication_id = ?", publicationID).
		Pluck("scholar_id", &scholarIDs).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Where("publication_id = ?", publicationID).Delete(&models.ScholarPublication{}).Error
	if err != nil {
		return nil, err
	}
	return scholarIDs, nil
}

// setDelta returns desired−current (toAdd) and current−desired (toRemove),
// preserving input order and ignoring duplicates.
func setDelta(current, desired []uint) (toAdd, toRemove []uint) {
	currentSet := make(map[uint]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[uint]bool, len(desired))
	for _, id := range desired {
		if desiredSet[id] {
			continue
		}
		desiredSet[id] = true
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
