package services

import (
	"fmt"

	"research-directory-api/config"
	"research-directory-api/models"
	"research-directory-api/utils"

	"gorm.io/gorm"
)

// KeywordInput is a new-keyword payload supplied inline with a scholar write.
type KeywordInput struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Slug        string   `json:"slug"`
	Aliases     []string `json:"aliases,omitempty"`
	Description *string  `json:"description,omitempty"`
	IsApproved  bool     `json:"is_approved"`
}

// KeywordLinkResult is the outcome of resolving one request's keyword
// references. Warnings cover skipped duplicates and unresolvable references;
// they are never fatal.
type KeywordLinkResult struct {
	Linked   []models.Keyword
	Created  []models.Keyword
	Warnings []string
}

// All returns the deduplicated union of linked and created keywords.
func (r *KeywordLinkResult) All() []models.Keyword {
	out := make([]models.Keyword, 0, len(r.Linked)+len(r.Created))
	out = append(out, r.Linked...)
	out = append(out, r.Created...)
	return out
}

// IDs returns the keyword ids of the final set, in input order.
func (r *KeywordLinkResult) IDs() []uint {
	all := r.All()
	ids := make([]uint, 0, len(all))
	for _, kw := range all {
		ids = append(ids, kw.KeywordID)
	}
	return ids
}

// KeywordLinker resolves a mixed set of keyword references (existing slugs,
// existing ids, new payloads) into a deduplicated set of keyword records,
// creating new ones on the caller's transaction.
type KeywordLinker struct {
	db       *gorm.DB
	resolver *IdentityResolver
}

func NewKeywordLinker(db *gorm.DB) *KeywordLinker {
	if db == nil {
		db = config.DB
	}
	return &KeywordLinker{db: db, resolver: NewIdentityResolver(db)}
}

// Link resolves and creates keywords. Unresolvable references are collected
// as warnings and the write proceeds with whatever resolves. A new-keyword
// payload whose normalized name already exists is treated as a reference to
// the existing record; when two payloads in the same request collide, the
// first occurrence wins and later ones merge into it.
func (l *KeywordLinker) Link(slugs []string, ids []uint, newKeywords []KeywordInput) (*KeywordLinkResult, error) {
	result := &KeywordLinkResult{}
	seen := map[uint]bool{}
	// normalized names already handled within this request
	byName := map[string]bool{}

	addLinked := func(kw *models.Keyword) {
		if !seen[kw.KeywordID] {
			seen[kw.KeywordID] = true
			result.Linked = append(result.Linked, *kw)
		}
	}

	for _, slug := range slugs {
		kw, err := l.resolver.ResolveKeywordBySlug(slug)
		if err != nil {
			return nil, err
		}
		if kw == nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("keyword slug %q not found or not approved, skipped", slug))
			continue
		}
		addLinked(kw)
	}

	for _, id := range ids {
		kw, err := l.resolver.ResolveKeywordByID(id)
		if err != nil {
			return nil, err
		}
		if kw == nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("keyword id %d not found or not approved, skipped", id))
			continue
		}
		addLinked(kw)
	}

	for _, input := range newKeywords {
		normalized := utils.NormalizeName(input.Name)
		if normalized == "" {
			result.Warnings = append(result.Warnings, "new keyword with empty name skipped")
			continue
		}

		if byName[normalized] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("keyword %q proposed more than once, merged into first occurrence", input.Name))
			continue
		}
		byName[normalized] = true

		existing, err := l.resolver.ResolveKeywordByName(normalized)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("keyword %q already exists, linked to existing record", input.Name))
			if !existing.IsApproved {
				result.Warnings = append(result.Warnings, fmt.Sprintf("existing keyword %q is not approved, skipped", input.Name))
				continue
			}
			addLinked(existing)
			continue
		}

		kw, created, err := l.create(normalized, input)
		if err != nil {
			return nil, err
		}
		if seen[kw.KeywordID] {
			continue
		}
		seen[kw.KeywordID] = true
		if created {
			result.Created = append(result.Created, *kw)
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("keyword %q was created concurrently, linked to existing record", input.Name))
			result.Linked = append(result.Linked, *kw)
		}
	}

	return result, nil
}

func (l *KeywordLinker) create(normalized string, input KeywordInput) (*models.Keyword, bool, error) {
	display := input.DisplayName
	if display == "" {
		display = input.Name
	}
	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(display)
	}

	kw := models.Keyword{
		Name:        normalized,
		DisplayName: display,
		Slug:        slug,
		Aliases:     input.Aliases,
		Description: input.Description,
		IsApproved:  input.IsApproved,
	}

	if err := l.db.Create(&kw).Error; err != nil {
		if !IsDuplicateKeyError(err) {
			return nil, false, err
		}
		// lost an insert race on name or slug: attach to the winner. Like
		// the publication path, the re-read requires read-committed
		// visibility of the winner's row.
		existing, rerr := l.resolver.ResolveKeywordByName(normalized)
		if rerr != nil {
			return nil, false, rerr
		}
		if existing == nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return &kw, true, nil
}
