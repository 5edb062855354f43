package batchsvc

import (
	"testing"
	"time"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func validInput(courseID uint) CreateBatchInput {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return CreateBatchInput{
		CourseID:    courseID,
		CourseType:  models.CourseTypeOnline,
		StartDate:   start,
		EndDate:     start.AddDate(0, 3, 0),
		MaxStudents: 30,
	}
}

func TestCreateBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, f(8000))

	batch, err := svc.CreateBatch(validInput(course.ID))
	require.NoError(t, err)

	assert.Equal(t, "WD2601", batch.BatchCode)
	assert.Equal(t, "Web Development WD2601", batch.Name)
	assert.Equal(t, "web-development-web-development-wd2601", batch.Slug)
	assert.Equal(t, models.BatchStatusDraft, batch.Status)
	assert.True(t, batch.IsActive)
	assert.Equal(t, 0, batch.CurrentStudents)
	assert.Equal(t, 20, batch.DiscountPercentage)
	// No overrides stored; pricing falls back to the course at read time
	assert.Nil(t, batch.RegularPrice)
	assert.Nil(t, batch.DiscountPrice)
}

func TestCreateBatchPricingOverride(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, f(8000))

	in := validInput(course.ID)
	in.Name = "Weekend Batch"
	in.RegularPrice = f(12000)
	in.DiscountPrice = f(6000)

	batch, err := svc.CreateBatch(in)
	require.NoError(t, err)

	assert.Equal(t, "Weekend Batch", batch.Name)
	assert.Equal(t, 50, batch.DiscountPercentage)

	_, pricing, err := svc.GetBatch(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 12000.0, pricing.RegularPrice)
	assert.Equal(t, 6000.0, pricing.DiscountPrice)
	assert.Equal(t, 6000.0, pricing.EffectiveAmount())
}

func TestCreateBatchInvalidDates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, nil)

	in := validInput(course.ID)
	in.EndDate = in.StartDate
	_, err := svc.CreateBatch(in)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	in.EndDate = in.StartDate.AddDate(0, 0, -1)
	_, err = svc.CreateBatch(in)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBatchUnknownCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.CreateBatch(validInput(999))
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestCreateBatchInactiveCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	course := models.Course{CourseCode: "WD", Title: "Web Development", Status: "DRAFT"}
	require.NoError(t, db.Create(&course).Error)

	_, err := svc.CreateBatch(validInput(course.ID))
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, nil)

	batch, err := svc.CreateBatch(validInput(course.ID))
	require.NoError(t, err)

	for _, next := range []models.BatchStatus{
		models.BatchStatusPublished,
		models.BatchStatusUpcoming,
		models.BatchStatusOngoing,
		models.BatchStatusCompleted,
	} {
		batch, err = svc.UpdateStatus(batch.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, batch.Status)
	}

	// Completed is terminal
	_, err = svc.UpdateStatus(batch.ID, models.BatchStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// isActive may still toggle on a terminal batch
	batch, err = svc.SetActive(batch.ID, false)
	require.NoError(t, err)
	assert.False(t, batch.IsActive)
}

func TestStatusTransitionSkipsForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, nil)

	batch, err := svc.CreateBatch(validInput(course.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(batch.ID, models.BatchStatusOngoing)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(batch.ID, models.BatchStatusDraft)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBeforeStart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, nil)

	batch, err := svc.CreateBatch(validInput(course.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(batch.ID, models.BatchStatusPublished)
	require.NoError(t, err)

	batch, err = svc.UpdateStatus(batch.ID, models.BatchStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusCancelled, batch.Status)

	_, err = svc.UpdateStatus(batch.ID, models.BatchStatusPublished)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestIncrementEnrollment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, nil)

	in := validInput(course.ID)
	in.MaxStudents = 2
	batch, err := svc.CreateBatch(in)
	require.NoError(t, err)

	require.NoError(t, svc.IncrementEnrollment(nil, batch.ID))
	require.NoError(t, svc.IncrementEnrollment(nil, batch.ID))

	// Third increment must fail and leave the count untouched
	err = svc.IncrementEnrollment(nil, batch.ID)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var got models.Batch
	require.NoError(t, db.First(&got, batch.ID).Error)
	assert.Equal(t, 2, got.CurrentStudents)
}

func TestIncrementEnrollmentUnknownBatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)

	err := svc.IncrementEnrollment(nil, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBatchInvariants(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, f(8000))

	in := validInput(course.ID)
	in.MaxStudents = 5
	batch, err := svc.CreateBatch(in)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Batch{}).Where("id = ?", batch.ID).
		UpdateColumn("current_students", 3).Error)

	// Capacity can never drop below the enrolled count
	_, err = svc.UpdateBatch(batch.ID, UpdateBatchInput{MaxStudents: intPtr(2)})
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// A date edit that inverts the range is rejected
	badEnd := batch.StartDate.AddDate(0, 0, -1)
	_, err = svc.UpdateBatch(batch.ID, UpdateBatchInput{EndDate: &badEnd})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// A price edit recomputes the percentage; the slug and code stay put
	updated, err := svc.UpdateBatch(batch.ID, UpdateBatchInput{DiscountPrice: f(5000)})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.DiscountPercentage)
	assert.Equal(t, batch.BatchCode, updated.BatchCode)
	assert.Equal(t, batch.Slug, updated.Slug)
}

func TestGetBatchBySlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, f(8000))

	batch, err := svc.CreateBatch(validInput(course.ID))
	require.NoError(t, err)

	got, pricing, err := svc.GetBatchBySlug(batch.Slug)
	require.NoError(t, err)
	assert.Equal(t, batch.ID, got.ID)
	assert.Equal(t, 20, pricing.DiscountPercentage)

	_, _, err = svc.GetBatchBySlug("no-such-slug")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Stored percentages are display-only: reads recompute from prices so a
// drifted stored value can never leak out.
func TestReadRecomputesDiscountPercentage(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, f(8000))

	batch, err := svc.CreateBatch(validInput(course.ID))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Batch{}).Where("id = ?", batch.ID).
		UpdateColumn("discount_percentage", 99).Error)

	got, pricing, err := svc.GetBatch(batch.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, pricing.DiscountPercentage)
	assert.Equal(t, 20, got.DiscountPercentage)
}

// The seat counter belongs to the enrollment pipeline; admin edits must issue
// field-targeted updates that never carry current_students, or an increment
// committing between their read and their write gets silently reverted.
func TestAdminEditsLeaveSeatCounterAlone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	course := createCourse(t, db, "WD", "Web Development", 10000, f(8000))

	in := validInput(course.ID)
	in.MaxStudents = 5
	batch, err := svc.CreateBatch(in)
	require.NoError(t, err)
	require.NoError(t, svc.IncrementEnrollment(nil, batch.ID))

	var updateSQL []string
	require.NoError(t, db.Callback().Update().After("gorm:update").
		Register("capture_update_sql", func(tx *gorm.DB) {
			updateSQL = append(updateSQL, tx.Statement.SQL.String())
		}))

	_, err = svc.UpdateBatch(batch.ID, UpdateBatchInput{Name: strPtr("Evening Batch"), MaxStudents: intPtr(8)})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(batch.ID, models.BatchStatusPublished)
	require.NoError(t, err)
	_, err = svc.SetActive(batch.ID, false)
	require.NoError(t, err)

	require.NotEmpty(t, updateSQL)
	for _, query := range updateSQL {
		assert.NotContains(t, query, "current_students")
	}

	var got models.Batch
	require.NoError(t, db.First(&got, batch.ID).Error)
	assert.Equal(t, 1, got.CurrentStudents)
	assert.Equal(t, "Evening Batch", got.Name)
	assert.Equal(t, 8, got.MaxStudents)
	assert.Equal(t, models.BatchStatusPublished, got.Status)
	assert.False(t, got.IsActive)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
