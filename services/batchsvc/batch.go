package batchsvc

import (
	"errors"
	"fmt"
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// Service owns the batch lifecycle: identifier derivation, pricing resolution
// and capacity bookkeeping. The storage handle is injected so tests can run
// it against an in-memory store.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// createAttempts bounds the duplicate-key retry loop on insert. Collisions
// are only possible when two creations race the same code/slug probe, so a
// couple of retries is plenty.
const createAttempts = 5

// CreateBatchInput carries everything an admin supplies for a new batch.
// BatchCode, Slug and DiscountPercentage are always derived, never accepted.
type CreateBatchInput struct {
	CourseID      uint
	Name          string
	CourseType    models.CourseType
	StartDate     time.Time
	EndDate       time.Time
	MaxStudents   int
	RegularPrice  *float64
	DiscountPrice *float64
}

// CreateBatch derives identifiers and pricing, validates the invariants and
// performs a single insert. A duplicate-key failure on batch_code or slug
// means a concurrent creation won the race; the candidates are regenerated
// and the insert retried rather than surfacing the collision.
func (s *Service) CreateBatch(in CreateBatchInput) (*models.Batch, error) {
	var course models.Course
	if err := s.db.Where("id = ? AND is_deleted = ? AND status = ?",
		in.CourseID, false, "ACTIVE").First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrGeneration, in.CourseID)
	}

	if !in.EndDate.After(in.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if in.MaxStudents < 1 {
		return nil, fmt.Errorf("%w: maxStudents must be at least 1", ErrCapacityExceeded)
	}

	pricing := ResolvePricing(in.RegularPrice, in.DiscountPrice, &course)

	var lastErr error
	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := s.nextBatchCode(course.CourseCode, in.StartDate.Year())
		if err != nil {
			return nil, err
		}

		name := in.Name
		if name == "" {
			name = fmt.Sprintf("%s %s", course.Title, code)
		}

		slug, err := s.uniqueSlug(course.Title + "-" + name)
		if err != nil {
			return nil, err
		}

		batch := models.Batch{
			CourseID:           course.ID,
			BatchCode:          code,
			Name:               name,
			Slug:               slug,
			CourseType:         in.CourseType,
			StartDate:          in.StartDate,
			EndDate:            in.EndDate,
			MaxStudents:        in.MaxStudents,
			RegularPrice:       in.RegularPrice,
			DiscountPrice:      in.DiscountPrice,
			DiscountPercentage: pricing.DiscountPercentage,
			Status:             models.BatchStatusDraft,
			IsActive:           true,
		}

		if err := s.db.Create(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				lastErr = err
				continue // lost the race, regenerate code/slug and retry
			}
			return nil, fmt.Errorf("create batch: %w", err)
		}
		return &batch, nil
	}

	return nil, fmt.Errorf("create batch: identifier collisions persisted: %w", lastErr)
}

// UpdateBatchInput carries the admin-editable batch fields. Nil means leave
// the field unchanged; identifiers are immutable and never touched here.
type UpdateBatchInput struct {
	Name          *string
	CourseType    *models.CourseType
	StartDate     *time.Time
	EndDate       *time.Time
	MaxStudents   *int
	RegularPrice  *float64
	DiscountPrice *float64
}

// UpdateBatch applies an explicit admin edit. Date and capacity invariants
// are re-checked against the merged state before anything is written, and
// the discount percentage is recomputed from the merged pricing.
func (s *Service) UpdateBatch(batchID uint, in UpdateBatchInput) (*models.Batch, error) {
	batch, err := s.getBatch(batchID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		batch.Name = *in.Name
	}
	if in.CourseType != nil {
		batch.CourseType = *in.CourseType
	}
	if in.StartDate != nil {
		batch.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		batch.EndDate = *in.EndDate
	}
	if in.MaxStudents != nil {
		batch.MaxStudents = *in.MaxStudents
	}
	if in.RegularPrice != nil {
		batch.RegularPrice = in.RegularPrice
	}
	if in.DiscountPrice != nil {
		batch.DiscountPrice = in.DiscountPrice
	}

	// Invariants checked before the write - no rollback path needed.
	if !batch.EndDate.After(batch.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if batch.MaxStudents < batch.CurrentStudents || batch.MaxStudents < 1 {
		return nil, ErrCapacityExceeded
	}

	var course models.Course
	if err := s.db.Where("id = ? AND is_deleted = ?", batch.CourseID, false).
		First(&course).Error; err != nil {
		return nil, fmt.Errorf("%w: course %d", ErrGeneration, batch.CourseID)
	}
	batch.DiscountPercentage = ResolvePricing(batch.RegularPrice, batch.DiscountPrice, &course).DiscountPercentage

	// Field-targeted write: the seat counter belongs to the enrollment
	// pipeline, so an admin edit must never carry a stale current_students
	// value back into the row.
	if err := s.db.Model(batch).Updates(map[string]interface{}{
		"name":                batch.Name,
		"course_type":         batch.CourseType,
		"start_date":          batch.StartDate,
		"end_date":            batch.EndDate,
		"max_students":        batch.MaxStudents,
		"regular_price":       batch.RegularPrice,
		"discount_price":      batch.DiscountPrice,
		"discount_percentage": batch.DiscountPercentage,
	}).Error; err != nil {
		return nil, fmt.Errorf("update batch %d: %w", batchID, err)
	}
	return batch, nil
}

// transitions is the batch status machine. Completed and cancelled are
// terminal; cancellation is reachable from any published state so an
// offering can be called off before it starts.
var transitions = map[models.BatchStatus][]models.BatchStatus{
	models.BatchStatusDraft:     {models.BatchStatusPublished},
	models.BatchStatusPublished: {models.BatchStatusUpcoming, models.BatchStatusCancelled},
	models.BatchStatusUpcoming:  {models.BatchStatusOngoing, models.BatchStatusCancelled},
	models.BatchStatusOngoing:   {models.BatchStatusCompleted, models.BatchStatusCancelled},
}

// UpdateStatus moves a batch through its lifecycle. Admin-triggered only;
// there are no time-based transitions in this service.
func (s *Service) UpdateStatus(batchID uint, next models.BatchStatus) (*models.Batch, error) {
	batch, err := s.getBatch(batchID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, st := range transitions[batch.Status] {
		if st == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, batch.Status, next)
	}

	batch.Status = next
	if err := s.db.Model(batch).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("update batch %d status: %w", batchID, err)
	}
	return batch, nil
}

// SetActive toggles the display/archival flag. Allowed on terminal batches
// too - it is not part of the status machine.
func (s *Service) SetActive(batchID uint, active bool) (*models.Batch, error) {
	batch, err := s.getBatch(batchID)
	if err != nil {
		return nil, err
	}

	batch.IsActive = active
	if err := s.db.Model(batch).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("toggle batch %d: %w", batchID, err)
	}
	return batch, nil
}

// IncrementEnrollment is the only sanctioned way to raise currentStudents.
// The capacity invariant lives in the WHERE clause so the check and the
// increment are one atomic statement; two racing enrollments cannot both
// claim the last seat. Runs on the caller's handle so the ledger can include
// it in its verification transaction.
func (s *Service) IncrementEnrollment(tx *gorm.DB, batchID uint) error {
	if tx == nil {
		tx = s.db
	}

	res := tx.Model(&models.Batch{}).
		Where("id = ? AND is_deleted = ? AND current_students < max_students", batchID, false).
		UpdateColumn("current_students", gorm.Expr("current_students + 1"))
	if res.Error != nil {
		return fmt.Errorf("increment enrollment for batch %d: %w", batchID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// Guarded update matched nothing: either the batch is gone or it is full.
	var count int64
	if err := tx.Model(&models.Batch{}).
		Where("id = ? AND is_deleted = ?", batchID, false).
		Count(&count).Error; err != nil {
		return fmt.Errorf("increment enrollment for batch %d: %w", batchID, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrCapacityExceeded
}

// GetBatch returns a batch with its pricing resolved at the read boundary.
func (s *Service) GetBatch(batchID uint) (*models.Batch, Pricing, error) {
	batch, err := s.getBatch(batchID)
	if err != nil {
		return nil, Pricing{}, err
	}
	return s.withPricing(batch)
}

// GetBatchBySlug returns a batch by its marketing slug.
func (s *Service) GetBatchBySlug(slug string) (*models.Batch, Pricing, error) {
	var batch models.Batch
	if err := s.db.Where("slug = ? AND is_deleted = ?", slug, false).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Pricing{}, ErrNotFound
		}
		return nil, Pricing{}, err
	}
	return s.withPricing(&batch)
}

// ListBatches returns non-deleted batches, optionally filtered by status.
func (s *Service) ListBatches(status models.BatchStatus, offset, limit int) ([]models.Batch, int64, error) {
	query := s.db.Model(&models.Batch{}).Where("is_deleted = ?", false)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var batches []models.Batch
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).
		Find(&batches).Error; err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}
	return batches, total, nil
}

func (s *Service) getBatch(batchID uint) (*models.Batch, error) {
	var batch models.Batch
	if err := s.db.Where("id = ? AND is_deleted = ?", batchID, false).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (s *Service) withPricing(batch *models.Batch) (*models.Batch, Pricing, error) {
	var course models.Course
	if err := s.db.Where("id = ?", batch.CourseID).First(&course).Error; err != nil {
		return nil, Pricing{}, fmt.Errorf("%w: course %d", ErrGeneration, batch.CourseID)
	}
	pricing := ResolvePricing(batch.RegularPrice, batch.DiscountPrice, &course)
	// Stored percentage is display-only; the derived value is authoritative.
	batch.DiscountPercentage = pricing.DiscountPercentage
	return batch, pricing, nil
}
