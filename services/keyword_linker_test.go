package services

import (
	"testing"

	"research-directory-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKeywordLinker_MixedReferences(t *testing.T) {
	db := newTestDB(t)
	bySlug := mustCreateKeyword(t, db, "Labour Law", true)
	byID := mustCreateKeyword(t, db, "Minimum Wage", true)

	result, err := NewKeywordLinker(db).Link(
		[]string{"labour-law", "no-such-slug"},
		[]uint{byID.KeywordID, 9999},
		[]KeywordInput{{Name: "Social Security", DisplayName: "Social Security", IsApproved: true}},
	)
	require.NoError(t, err)

	assert.Len(t, result.Linked, 2)
	assert.Equal(t, bySlug.KeywordID, result.Linked[0].KeywordID)
	assert.Equal(t, byID.KeywordID, result.Linked[1].KeywordID)

	require.Len(t, result.Created, 1)
	assert.Equal(t, "social security", result.Created[0].Name)
	assert.Equal(t, "social-security", result.Created[0].Slug)

	assert.Len(t, result.Warnings, 2, "one per unresolvable reference")
	assert.Len(t, result.IDs(), 3)
}

func TestKeywordLinker_ExistingNameBecomesReference(t *testing.T) {
	db := newTestDB(t)
	existing := mustCreateKeyword(t, db, "Labour Law", true)

	result, err := NewKeywordLinker(db).Link(nil, nil, []KeywordInput{
		{Name: "labour law", DisplayName: "Labour Law (duplicate)"},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	require.Len(t, result.Linked, 1)
	assert.Equal(t, existing.KeywordID, result.Linked[0].KeywordID)
	require.NotEmpty(t, result.Warnings)

	var count int64
	require.NoError(t, db.Model(&models.Keyword{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no second keyword row")
}

func TestKeywordLinker_UnapprovedExistingNameIsSkipped(t *testing.T) {
	db := newTestDB(t)
	mustCreateKeyword(t, db, "Gig Economy", false)

	result, err := NewKeywordLinker(db).Link(nil, nil, []KeywordInput{
		{Name: "Gig Economy"},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Created)
	assert.Empty(t, result.Linked)
	assert.NotEmpty(t, result.Warnings)
}

func TestKeywordLinker_FirstOccurrenceWinsWithinRequest(t *testing.T) {
	db := newTestDB(t)

	result, err := NewKeywordLinker(db).Link(nil, nil, []KeywordInput{
		{Name: "Labour Law", DisplayName: "Labour Law", IsApproved: true},
		{Name: "labour LAW", DisplayName: "Labor Law"},
	})
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	assert.Equal(t, "Labour Law", result.Created[0].DisplayName, "first payload wins")
	assert.NotEmpty(t, result.Warnings)

	var count int64
	require.NoError(t, db.Model(&models.Keyword{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestKeywordLinker_LostNameInsertRaceAttachesToWinner(t *testing.T) {
	db := newTestDB(t)

	// a concurrent request wins the insert: the same normalized name lands
	// just before the linker's own insert reaches the database
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("competing_name_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "keywords" {
			return
		}
		fired = true
		mustCreateKeyword(t, db, "Labour Law", true)
	})
	require.NoError(t, err)

	result, err := NewKeywordLinker(db).Link(nil, nil, []KeywordInput{
		{Name: "labour LAW", DisplayName: "Labor Law"},
	})
	require.NoError(t, err, "losing the insert race is not a hard failure")

	assert.Empty(t, result.Created)
	require.Len(t, result.Linked, 1)
	assert.Equal(t, "labour law", result.Linked[0].Name)
	assert.NotEmpty(t, result.Warnings)

	var count int64
	require.NoError(t, db.Model(&models.Keyword{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "no second keyword row for the same name")
}

func TestKeywordLinker_SlugAndNewPayloadCollapse(t *testing.T) {
	db := newTestDB(t)
	existing := mustCreateKeyword(t, db, "Labour Law", true)

	// referenced by slug and accidentally also proposed as new
	result, err := NewKeywordLinker(db).Link(
		[]string{"labour-law"},
		nil,
		[]KeywordInput{{Name: "Labour Law"}},
	)
	require.NoError(t, err)

	assert.Len(t, result.IDs(), 1)
	assert.Equal(t, existing.KeywordID, result.IDs()[0])
}
