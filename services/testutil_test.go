package services

import (
	"testing"

	"research-directory-api/models"
	"research-directory-api/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database so the transactional paths
// (commit, rollback, unique-index violations) run against a real store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, or each pool member would see its own :memory: database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Scholar{},
		&models.Publication{},
		&models.Keyword{},
		&models.ScholarPublication{},
		&models.ScholarKeyword{},
		&models.User{},
		&models.PasswordReset{},
		&models.ContactMessage{},
	))

	return db
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func mustCreateScholar(t *testing.T, db *gorm.DB, name string) *models.Scholar {
	t.Helper()
	scholar := &models.Scholar{
		FullName:       name,
		NormalizedName: utils.NormalizeName(name),
		Slug:           utils.Slugify(name),
	}
	require.NoError(t, db.Create(scholar).Error)
	return scholar
}

func mustCreatePublication(t *testing.T, db *gorm.DB, title string, doi *string, related *bool, authors ...string) *models.Publication {
	t.Helper()
	pub := &models.Publication{
		Title:           title,
		NormalizedTitle: utils.NormalizeTitle(title),
		Authors:         authors,
		DOI:             doi,
		Related:         related,
	}
	require.NoError(t, db.Create(pub).Error)
	return pub
}

func mustCreateKeyword(t *testing.T, db *gorm.DB, name string, approved bool) *models.Keyword {
	t.Helper()
	kw := &models.Keyword{
		Name:        utils.NormalizeName(name),
		DisplayName: name,
		Slug:        utils.Slugify(name),
		IsApproved:  approved,
	}
	require.NoError(t, db.Create(kw).Error)
	return kw
}

func linkedPublicationIDs(t *testing.T, db *gorm.DB, scholarID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.ScholarPublication{}).
		Where("scholar_id = ?", scholarID).
		Order("publication_id ASC").
		Pluck("publication_id", &ids).Error)
	return ids
}

func linkedScholarIDs(t *testing.T, db *gorm.DB, publicationID uint) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.ScholarPublication{}).
		Where("publication_id = ?", publicationID).
		Order("scholar_id ASC").
		Pluck("scholar_id", &ids).Error)
	return ids
}

// assertSymmetry checks that every scholar<->publication reference holds in
// both directions: P linked from S implies S linked from P and vice versa.
// With link rows this follows from querying the same table both ways, which
// is exactly the guarantee callers rely on.
func assertSymmetry(t *testing.T, db *gorm.DB) {
	t.Helper()

	var scholars []models.Scholar
	require.NoError(t, db.Find(&scholars).Error)
	for _, s := range scholars {
		for _, pubID := range linkedPublicationIDs(t, db, s.ScholarID) {
			require.Contains(t, linkedScholarIDs(t, db, pubID), s.ScholarID,
				"publication %d does not reference scholar %d back", pubID, s.ScholarID)
		}
	}

	var pubs []models.Publication
	require.NoError(t, db.Find(&pubs).Error)
	for _, p := range pubs {
		for _, scholarID := range linkedScholarIDs(t, db, p.PublicationID) {
			require.Contains(t, linkedPublicationIDs(t, db, scholarID), p.PublicationID,
				"scholar %d does not reference publication %d back", scholarID, p.PublicationID)
		}
	}
}
