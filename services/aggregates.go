package services

import (
	"research-directory-api/models"

	"gorm.io/gorm"
)

// FrequentContributorThreshold is the related-publication count at which a
// scholar is marked a frequent contributor.
const FrequentContributorThreshold = 3

// ScholarAggregates holds the derived fields recomputed from a scholar's
// reconciled publication link set.
type ScholarAggregates struct {
	PublicationCount        int
	RelatedPublicationCount int
	FrequentContributor     bool
}

// RecomputeAggregates derives the aggregate fields from the final link set.
// Pure function; it runs unconditionally on every write that touches
// publication links so the stored values can never drift from the links.
func RecomputeAggregates(publications []models.Publication) ScholarAggregates {
	agg := ScholarAggregates{PublicationCount: len(publications)}
	for i := range publications {
		if publications[i].IsRelated() {
			agg.RelatedPublicationCount++
		}
	}
	agg.FrequentContributor = agg.RelatedPublicationCount >= FrequentContributorThreshold
	return agg
}

// refreshScholarAggregates loads the scholar's current linked publications,
// recomputes the aggregates and writes them to the scholar row.
func refreshScholarAggregates(db *gorm.DB, scholarID uint) (ScholarAggregates, error) {
	var pubs []models.Publication
	err := db.
		Joins("JOIN scholar_publications sp ON sp.publication_id = publications.publication_id").
		Where("sp.scholar_id = ?", scholarID).
		Find(&pubs).Error
	if err != nil {
		return ScholarAggregates{}, err
	}

	agg := RecomputeAggregates(pubs)
	err = db.Model(&models.Scholar{}).
		Where("scholar_id = ?", scholarID).
		Updates(map[string]interface{}{
			"publication_count":         agg.PublicationCount,
			"related_publication_count": agg.RelatedPublicationCount,
			"frequent_contributor":      agg.FrequentContributor,
		}).Error
	return agg, err
}
