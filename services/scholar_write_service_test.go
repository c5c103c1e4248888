package services

import (
	"testing"

	"research-directory-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScholarWriteService_CreateWithNewReferences(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	scholar, result, err := svc.Create(ScholarInput{
		FullName: "A B",
		NewKeywords: []KeywordInput{
			{Name: "Labour Law"},
		},
		NewPublications: []PublicationInput{
			{Title: "Study X", DOI: strPtr("10.1/x"), Authors: []string{"A B"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "A B", scholar.FullName)
	assert.Equal(t, "a-b", scholar.Slug)
	assert.Equal(t, 1, scholar.PublicationCount)
	assert.Equal(t, 1, scholar.RelatedPublicationCount)
	assert.False(t, scholar.FrequentContributor)
	require.Len(t, scholar.Keywords, 1)
	assert.Equal(t, "labour law", scholar.Keywords[0].Name)
	require.Len(t, scholar.Publications, 1)
	assert.Equal(t, "Study X", scholar.Publications[0].Title)

	assert.Len(t, result.CreatedKeywords, 1)
	assert.Len(t, result.CreatedPublications, 1)
	assert.Equal(t, 1, result.TotalKeywords)
	assert.Equal(t, 1, result.TotalPublications)
	assert.Empty(t, result.Warnings)

	// the new publication points back at the scholar
	assert.Equal(t, []uint{scholar.ScholarID}, linkedScholarIDs(t, db, scholar.Publications[0].PublicationID))
	assertSymmetry(t, db)
}

func TestScholarWriteService_CreateReusesExistingPublicationByDOI(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)
	existing := mustCreatePublication(t, db, "Study X", strPtr("10.1/x"), nil, "A B")

	scholar, result, err := svc.Create(ScholarInput{
		FullName: "C D",
		NewPublications: []PublicationInput{
			{Title: "Completely Different Title", DOI: strPtr("10.1/x")},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, result.CreatedPublications)
	require.Len(t, result.LinkedPublications, 1)
	assert.Equal(t, existing.PublicationID, result.LinkedPublications[0].PublicationID)
	assert.NotEmpty(t, result.Warnings)

	var count int64
	require.NoError(t, db.Model(&models.Publication{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, []uint{existing.PublicationID}, linkedPublicationIDs(t, db, scholar.ScholarID))
}

func TestScholarWriteService_UpdateReplacesLinkSets(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)
	old := mustCreatePublication(t, db, "Old Work", nil, nil, "A B")

	scholar, _, err := svc.Create(ScholarInput{
		FullName:       "A B",
		PublicationIDs: []uint{old.PublicationID},
		NewKeywords:    []KeywordInput{{Name: "Labour Law"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, scholar.PublicationCount)

	// the update mentions only the new publication and no keywords at all
	updated, _, err := svc.Update(scholar.ScholarID, ScholarInput{
		FullName: "A B",
		NewPublications: []PublicationInput{
			{Title: "New Work", Authors: []string{"A B"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Publications, 1)
	assert.Equal(t, "New Work", updated.Publications[0].Title)
	assert.Empty(t, updated.Keywords)
	assert.Equal(t, 1, updated.PublicationCount)

	// the dropped publication survives but no longer references the scholar
	var oldReloaded models.Publication
	require.NoError(t, db.First(&oldReloaded, old.PublicationID).Error)
	assert.Empty(t, linkedScholarIDs(t, db, old.PublicationID))
	assertSymmetry(t, db)
}

func TestScholarWriteService_RollbackOnSlugCollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	mustCreateScholar(t, db, "Taken Name") // owns slug "taken-name"
	scholar, _, err := svc.Create(ScholarInput{FullName: "A B"})
	require.NoError(t, err)

	var keywordsBefore, pubsBefore int64
	require.NoError(t, db.Model(&models.Keyword{}).Count(&keywordsBefore).Error)
	require.NoError(t, db.Model(&models.Publication{}).Count(&pubsBefore).Error)

	// the slug collision surfaces after the keywords and the publication were
	// created inside the transaction, so the rollback must undo all of them
	_, _, err = svc.Update(scholar.ScholarID, ScholarInput{
		FullName: "A B",
		Slug:     "Taken Name",
		NewKeywords: []KeywordInput{
			{Name: "Labour Law"},
			{Name: "Minimum Wage"},
		},
		NewPublications: []PublicationInput{
			{Title: "Doomed Study", Authors: []string{"A B"}},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var keywordsAfter, pubsAfter, linksAfter int64
	require.NoError(t, db.Model(&models.Keyword{}).Count(&keywordsAfter).Error)
	require.NoError(t, db.Model(&models.Publication{}).Count(&pubsAfter).Error)
	require.NoError(t, db.Model(&models.ScholarKeyword{}).Count(&linksAfter).Error)
	assert.Equal(t, keywordsBefore, keywordsAfter)
	assert.Equal(t, pubsBefore, pubsAfter)
	assert.EqualValues(t, 0, linksAfter)

	// the scholar row itself is untouched
	var reloaded models.Scholar
	require.NoError(t, db.First(&reloaded, scholar.ScholarID).Error)
	assert.Equal(t, "a-b", reloaded.Slug)
	assert.Equal(t, 0, reloaded.PublicationCount)
}

func TestScholarWriteService_CreateDuplicateSlugFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	_, _, err := svc.Create(ScholarInput{FullName: "A B"})
	require.NoError(t, err)

	_, _, err = svc.Create(ScholarInput{FullName: "a b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScholarWriteService_WarningsDoNotAbort(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	scholar, result, err := svc.Create(ScholarInput{
		FullName:       "A B",
		KeywordSlugs:   []string{"does-not-exist"},
		PublicationIDs: []uint{9999},
	})
	require.NoError(t, err)

	assert.Len(t, result.Warnings, 2)
	assert.Equal(t, 0, result.TotalKeywords)
	assert.Equal(t, 0, result.TotalPublications)
	assert.Equal(t, 0, scholar.PublicationCount)
}

func TestScholarWriteService_ValidationErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	_, _, err := svc.Create(ScholarInput{FullName: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Create(ScholarInput{FullName: "A B", Email: strPtr("not-an-email")})
	assert.ErrorIs(t, err, ErrValidation)

	_, _, err = svc.Update(9999, ScholarInput{FullName: "A B"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScholarWriteService_DeleteReleasesSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	first, _, err := svc.Create(ScholarInput{FullName: "A B"})
	require.NoError(t, err)
	require.Equal(t, "a-b", first.Slug)

	require.NoError(t, svc.Delete(first.ScholarID))

	// the deleted row must not reserve the slug forever
	second, _, err := svc.Create(ScholarInput{FullName: "A B"})
	require.NoError(t, err)
	assert.Equal(t, "a-b", second.Slug)
	assert.NotEqual(t, first.ScholarID, second.ScholarID)
}

func TestScholarWriteService_DeleteRemovesLinksKeepsPublications(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarWriteService(db)

	scholar, _, err := svc.Create(ScholarInput{
		FullName:    "A B",
		NewKeywords: []KeywordInput{{Name: "Labour Law"}},
		NewPublications: []PublicationInput{
			{Title: "Study X", Authors: []string{"A B"}},
		},
	})
	require.NoError(t, err)
	pubID := scholar.Publications[0].PublicationID

	require.NoError(t, svc.Delete(scholar.ScholarID))

	var pub models.Publication
	require.NoError(t, db.First(&pub, pubID).Error, "publication survives the scholar")
	assert.Empty(t, linkedScholarIDs(t, db, pubID))

	var linkCount int64
	require.NoError(t, db.Model(&models.ScholarKeyword{}).Where("scholar_id = ?", scholar.ScholarID).Count(&linkCount).Error)
	assert.EqualValues(t, 0, linkCount)

	assert.ErrorIs(t, svc.Delete(scholar.ScholarID), ErrNotFound)
}
