package services

import (
	"testing"

	"research-directory-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicationService_CreateDetectsDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	pub, created, err := svc.Create(PublicationInput{
		Title:   "Study X",
		DOI:     strPtr("10.1/x"),
		Authors: []string{"A B"},
	})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Create(PublicationInput{
		Title: "Different Title Same DOI",
		DOI:   strPtr("10.1/x"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, pub.PublicationID, again.PublicationID)

	_, _, err = svc.Create(PublicationInput{Title: "  "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublicationService_UpdateRecomputesAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)
	writeSvc := NewScholarWriteService(db)

	scholar, _, err := writeSvc.Create(ScholarInput{
		FullName: "A B",
		NewPublications: []PublicationInput{
			{Title: "One", Authors: []string{"A B"}},
			{Title: "Two", Authors: []string{"A B"}},
			{Title: "Three", Authors: []string{"A B"}},
		},
	})
	require.NoError(t, err)
	require.True(t, scholar.FrequentContributor)

	// flipping one publication to explicitly unrelated drops the scholar
	// below the frequent-contributor threshold
	target := scholar.Publications[0]
	_, err = svc.Update(target.PublicationID, PublicationInput{
		Title:   target.Title,
		Authors: []string{"A B"},
		Related: boolPtr(false),
	})
	require.NoError(t, err)

	var reloaded models.Scholar
	require.NoError(t, db.First(&reloaded, scholar.ScholarID).Error)
	assert.Equal(t, 3, reloaded.PublicationCount)
	assert.Equal(t, 2, reloaded.RelatedPublicationCount)
	assert.False(t, reloaded.FrequentContributor)
}

func TestPublicationService_UpdateRejectsDOICollision(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	mustCreatePublication(t, db, "Owner", strPtr("10.1/x"), nil, "A")
	other := mustCreatePublication(t, db, "Other", strPtr("10.1/y"), nil, "A")

	_, err := svc.Update(other.PublicationID, PublicationInput{
		Title: "Other",
		DOI:   strPtr("10.1/x"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublicationService_DeleteCleansUpLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)
	writeSvc := NewScholarWriteService(db)

	scholar, _, err := writeSvc.Create(ScholarInput{
		FullName: "A B",
		NewPublications: []PublicationInput{
			{Title: "Keep", Authors: []string{"A B"}},
			{Title: "Drop", Authors: []string{"A B"}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, scholar.PublicationCount)

	var drop models.Publication
	require.NoError(t, db.Where("title = ?", "Drop").First(&drop).Error)

	require.NoError(t, svc.Delete(drop.PublicationID))

	var reloaded models.Scholar
	require.NoError(t, db.First(&reloaded, scholar.ScholarID).Error)
	assert.Equal(t, 1, reloaded.PublicationCount)
	assert.Equal(t, 1, reloaded.RelatedPublicationCount)
	require.Len(t, linkedPublicationIDs(t, db, scholar.ScholarID), 1)
	assertSymmetry(t, db)

	assert.ErrorIs(t, svc.Delete(drop.PublicationID), ErrNotFound)
}

func TestPublicationService_ListFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewPublicationService(db)

	mustCreatePublication(t, db, "Minimum Wage Effects", strPtr("10.1/x"), nil, "A")
	mustCreatePublication(t, db, "Unrelated Topic", nil, nil, "A")

	pubs, total, err := svc.List("minimum wage", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pubs, 1)
	assert.Equal(t, "Minimum Wage Effects", pubs[0].Title)

	pubs, total, err = svc.List("10.1/x", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.List("", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
