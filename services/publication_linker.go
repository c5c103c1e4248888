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
	"gorm.io/gorm/clause"
)

// PublicationInput is a new-publication payload, supplied either inline with
// a scholar write or through the publication CRUD endpoint.
type PublicationInput struct {
	Title        string   `json:"title"`
	Authors      []string `json:"authors,omitempty"`
	Year         *int     `json:"year,omitempty"`
	Venue        *string  `json:"venue,omitempty"`
	CitationText *string  `json:"citation_text,omitempty"`
	PubType      *string  `json:"pub_type,omitempty"`
	Abstract     *string  `json:"abstract,omitempty"`
	DOI          *string  `json:"doi,omitempty"`
	URL          *string  `json:"url,omitempty"`
	Related      *bool    `json:"related,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// PublicationLinkResult is the outcome of resolving one request's
// publication references.
type PublicationLinkResult struct {
	Linked       []models.Publication
	Created      []models.Publication
	RelatedCount int
	Warnings     []string
}

// All returns the deduplicated union of linked and created publications.
func (r *PublicationLinkResult) All() []models.Publication {
	out := make([]models.Publication, 0, len(r.Linked)+len(r.Created))
	out = append(out, r.Linked...)
	out = append(out, r.Created...)
	return out
}

// IDs returns the publication ids of the final set, in input order.
func (r *PublicationLinkResult) IDs() []uint {
	all := r.All()
	ids := make([]uint, 0, len(all))
	for _, pub := range all {
		ids = append(ids, pub.PublicationID)
	}
	return ids
}

// Legacy publication-type aliases mapped to the canonical vocabulary. The
// table is fixed and finite; unknown values pass through unchanged.
var pubTypeAliases = map[string]string{
	"journal-article":  models.PubTypeJournal,
	"journal article":  models.PubTypeJournal,
	"conference-paper": models.PubTypeConference,
	"proceedings":      models.PubTypeConference,
	"book-chapter":     models.PubTypeChapter,
	"working-paper":    models.PubTypePreprint,
	"workingpaper":     models.PubTypePreprint,
	"tech-report":      models.PubTypeReport,
	"misc":             models.PubTypeOther,
}

// CanonicalPubType normalizes a publication type value before storage.
func CanonicalPubType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if canonical, ok := pubTypeAliases[t]; ok {
		return canonical
	}
	return t
}

// PublicationLinker resolves a set of publication references (existing ids
// to attach, new payloads to create) into a deduplicated set of publication
// records, and attaches the scholar to each one's contributor set. It only
// ever adds links; removal is centralized in the ReferenceReconciler.
type PublicationLinker struct {
	db       *gorm.DB
	resolver *IdentityResolver
}

func NewPublicationLinker(db *gorm.DB) *PublicationLinker {
	if db == nil {
		db = config.DB
	}
	return &PublicationLinker{db: db, resolver: NewIdentityResolver(db)}
}

// Link resolves existing ids and creates (or deduplicates) new payloads for
// the given scholar. RelatedCount counts every linked-or-created publication
// whose relatedness flag is not explicitly false.
func (l *PublicationLinker) Link(existingIDs []uint, newPublications []PublicationInput, scholarID uint) (*PublicationLinkResult, error) {
	result := &PublicationLinkResult{}
	seen := map[uint]bool{}

	for _, id := range existingIDs {
		var pub models.Publication
		err := l.db.Where("publication_id = ?", id).First(&pub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("publication id %d not found, skipped", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		if seen[pub.PublicationID] {
			continue
		}
		if err := l.attach(scholarID, pub.PublicationID); err != nil {
			return nil, err
		}
		seen[pub.PublicationID] = true
		result.Linked = append(result.Linked, pub)
	}

	for _, input := range newPublications {
		if strings.TrimSpace(input.Title) == "" {
			result.Warnings = append(result.Warnings, "new publication with empty title skipped")
			continue
		}

		pub, created, warning, err := l.createOrAttach(input)
		if err != nil {
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if seen[pub.PublicationID] {
			continue
		}
		if err := l.attach(scholarID, pub.PublicationID); err != nil {
			return nil, err
		}
		seen[pub.PublicationID] = true
		if created {
			result.Created = append(result.Created, *pub)
		} else {
			result.Linked = append(result.Linked, *pub)
		}
	}

	for _, pub := range result.All() {
		if pub.IsRelated() {
			result.RelatedCount++
		}
	}

	return result, nil
}

// createOrAttach runs duplicate detection before insertion. On a duplicate
// hit the existing record's mutable fields are updated with the incoming
// payload (newer values win) instead of inserting a second record. An insert
// that loses a concurrent DOI race is re-resolved and attached.
func (l *PublicationLinker) createOrAttach(input PublicationInput) (*models.Publication, bool, string, error) {
	doi := ""
	if input.DOI != nil {
		doi = strings.TrimSpace(*input.DOI)
	}

	dup, err := l.resolver.FindPublicationDuplicate(doi, input.Title, input.Authors)
	if err != nil {
		return nil, false, "", err
	}
	if dup != nil {
		if err := l.updateExisting(dup, input); err != nil {
			return nil, false, "", err
		}
		warning := fmt.Sprintf("publication %q matched existing record %d, linked instead of created", input.Title, dup.PublicationID)
		return dup, false, warning, nil
	}

	pub := l.fromInput(input)
	if err := l.db.Create(pub).Error; err != nil {
		if !IsDuplicateKeyError(err) || doi == "" {
			return nil, false, "", err
		}
		// concurrent request inserted the same DOI first: attach to it.
		// The re-read requires the winner's committed row to be visible
		// (read committed); under a repeatable-read snapshot it may not be,
		// and the raw duplicate-key error surfaces instead.
		winner, rerr := l.resolver.FindPublicationDuplicate(doi, input.Title, input.Authors)
		if rerr != nil {
			return nil, false, "", rerr
		}
		if winner == nil {
			return nil, false, "", err
		}
		warning := fmt.Sprintf("publication with DOI %q was created concurrently, linked to existing record %d", doi, winner.PublicationID)
		return winner, false, warning, nil
	}
	return pub, true, "", nil
}

func (l *PublicationLinker) fromInput(input PublicationInput) *models.Publication {
	pub := &models.Publication{
		Title:           strings.TrimSpace(input.Title),
		NormalizedTitle: utils.NormalizeTitle(input.Title),
		Authors:         input.Authors,
		Year:            input.Year,
		Venue:           input.Venue,
		CitationText:    input.CitationText,
		Abstract:        input.Abstract,
		DOI:             input.DOI,
		URL:             input.URL,
		Related:         input.Related,
		Tags:            input.Tags,
	}
	if input.PubType != nil {
		canonical := CanonicalPubType(*input.PubType)
		pub.PubType = &canonical
	}
	return pub
}

func (l *PublicationLinker) updateExisting(pub *models.Publication, input PublicationInput) error {
	updates := map[string]interface{}{
		"title":            strings.TrimSpace(input.Title),
		"normalized_title": utils.NormalizeTitle(input.Title),
		"authors":          datatypes.NewJSONSlice(input.Authors),
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Venue != nil {
		updates["venue"] = *input.Venue
	}
	if input.CitationText != nil {
		updates["citation_text"] = *input.CitationText
	}
	if input.PubType != nil {
		updates["pub_type"] = CanonicalPubType(*input.PubType)
	}
	if input.Abstract != nil {
		updates["abstract"] = *input.Abstract
	}
	if input.URL != nil {
		updates["url"] = *input.URL
	}
	if input.Related != nil {
		updates["related"] = *input.Related
	}
	if len(input.Tags) > 0 {
		updates["tags"] = datatypes.NewJSONSlice(input.Tags)
	}
	// a DOI appearing for the first time is kept; an existing DOI is never
	// overwritten since it was the dedup key
	if pub.DOI == nil && input.DOI != nil && strings.TrimSpace(*input.DOI) != "" {
		doi := strings.TrimSpace(*input.DOI)
		updates["doi"] = doi
	}

	if err := l.db.Model(pub).Updates(updates).Error; err != nil {
		return err
	}
	return l.db.Where("publication_id = ?", pub.PublicationID).First(pub).Error
}

// attach adds the scholar to the publication's contributor set. Inserting an
// already-present link is a no-op, not an error.
func (l *PublicationLinker) attach(scholarID, publicationID uint) error {
	link := models.ScholarPublication{ScholarID: scholarID, PublicationID: publicationID}
	return l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}
