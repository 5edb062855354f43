package batchsvc

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Batch{},
		&models.Invoice{},
		&models.Payment{},
	))
	return db
}

func createCourse(t *testing.T, db *gorm.DB, code, title string, regular float64, discount *float64) *models.Course {
	t.Helper()

	course := models.Course{
		CourseCode:    code,
		Title:         title,
		RegularPrice:  regular,
		DiscountPrice: discount,
		Status:        "ACTIVE",
	}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Web Development-Web Development WD2601", "web-development-web-development-wd2601"},
		{"  Digital Marketing!! Batch #3  ", "digital-marketing-batch-3"},
		{"---", ""},
		{"Already-Slugged", "already-slugged"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in))
	}
}

func TestNextBatchCodeSequence(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, nil)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, 0)

	var codes []string
	for i := 0; i < 3; i++ {
		batch, err := svc.CreateBatch(CreateBatchInput{
			CourseID:    course.ID,
			CourseType:  models.CourseTypeOnline,
			StartDate:   start,
			EndDate:     end,
			MaxStudents: 30,
		})
		require.NoError(t, err)
		codes = append(codes, batch.BatchCode)
	}

	assert.Equal(t, []string{"WD2601", "WD2602", "WD2603"}, codes)
}

func TestNextBatchCodeNumericSuffix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	// Suffixes past 99 must compare numerically: 100 > 99 even though
	// "WD26100" < "WD2699" as strings.
	seed := []string{"WD2699", "WD26100"}
	for i, code := range seed {
		require.NoError(t, db.Create(&models.Batch{
			CourseID:    1,
			BatchCode:   code,
			Name:        code,
			Slug:        fmt.Sprintf("seed-%d", i),
			StartDate:   time.Now(),
			EndDate:     time.Now().AddDate(0, 1, 0),
			MaxStudents: 10,
		}).Error)
	}

	code, err := svc.nextBatchCode("WD", 2026)
	require.NoError(t, err)
	assert.Equal(t, "WD26101", code)
}

func TestNextBatchCodeScopedToCourseAndYear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	require.NoError(t, db.Create(&models.Batch{
		CourseID:    1,
		BatchCode:   "WD2505",
		Name:        "old year",
		Slug:        "old-year",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
		MaxStudents: 10,
	}).Error)

	code, err := svc.nextBatchCode("WD", 2026)
	require.NoError(t, err)
	assert.Equal(t, "WD2601", code, "a different year starts its own sequence")

	code, err = svc.nextBatchCode("DM", 2025)
	require.NoError(t, err)
	assert.Equal(t, "DM2501", code, "a different course starts its own sequence")
}

func TestUniqueSlugCollision(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	require.NoError(t, db.Create(&models.Batch{
		CourseID:    1,
		BatchCode:   "WD2601",
		Name:        "taken",
		Slug:        "web-development-evening",
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
		MaxStudents: 10,
	}).Error)

	slug, err := svc.uniqueSlug("Web Development Evening")
	require.NoError(t, err)
	assert.Equal(t, "web-development-evening-1", slug)

	require.NoError(t, db.Create(&models.Batch{
		CourseID:    1,
		BatchCode:   "WD2602",
		Name:        "taken too",
		Slug:        slug,
		StartDate:   time.Now(),
		EndDate:     time.Now().AddDate(0, 1, 0),
		MaxStudents: 10,
	}).Error)

	slug, err = svc.uniqueSlug("Web Development Evening")
	require.NoError(t, err)
	assert.Equal(t, "web-development-evening-2", slug)
}

func TestUniqueSlugEmptyBase(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	slug, err := svc.uniqueSlug("!!!")
	require.NoError(t, err)
	assert.Equal(t, "batch", slug)
}
