package batchsvc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lms/models"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input, collapses non-alphanumeric runs to single
// hyphens and trims leading/trailing hyphens.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// nextBatchCode builds the next code for (courseCode, year): the prefix
// {courseCode}{YY} followed by a two-digit sequence number, max+1 over
// existing codes with the same prefix. Sequence numbers past 99 keep growing
// to three digits, so the suffix is compared numerically, not by string order.
func (s *Service) nextBatchCode(courseCode string, year int) (string, error) {
	prefix := fmt.Sprintf("%s%02d", courseCode, year%100)

	var codes []string
	if err := s.db.Model(&models.Batch{}).
		Where("batch_code LIKE ?", prefix+"%").
		Pluck("batch_code", &codes).Error; err != nil {
		return "", fmt.Errorf("query batch codes for %s: %w", prefix, err)
	}

	maxSeq := 0
	for _, code := range codes {
		seq, err := strconv.Atoi(strings.TrimPrefix(code, prefix))
		if err != nil {
			continue // unrelated code that happens to share the prefix
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	return fmt.Sprintf("%s%02d", prefix, maxSeq+1), nil
}

// uniqueSlug probes the batch table for the slugified base and appends -1,
// -2, ... until a free slug is found. Called at creation time only; edits
// never regenerate the slug. The unique index on batches.slug is the final
// backstop for races between concurrent creations.
func (s *Service) uniqueSlug(base string) (string, error) {
	slug := Slugify(base)
	if slug == "" {
		slug = "batch"
	}

	candidate := slug
	for suffix := 1; ; suffix++ {
		var count int64
		if err := s.db.Model(&models.Batch{}).
			Where("slug = ?", candidate).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("probe slug %s: %w", candidate, err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, suffix)
	}
}
