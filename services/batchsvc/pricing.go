package batchsvc

import (
	"math"

	"lms/models"
)

// Pricing is the effective price trio for a batch after override resolution.
type Pricing struct {
	RegularPrice       float64 `json:"regular_price"`
	DiscountPrice      float64 `json:"discount_price"`
	DiscountPercentage int     `json:"discount_percentage"`
}

// EffectiveAmount is what a student actually owes for a seat: the discount
// price when a valid discount exists, the regular price otherwise.
func (p Pricing) EffectiveAmount() float64 {
	if p.DiscountPrice > 0 && p.DiscountPrice < p.RegularPrice {
		return p.DiscountPrice
	}
	return p.RegularPrice
}

// ResolvePricing computes the effective pricing for a batch. A batch-level
// override wins when present; otherwise the parent course's value applies.
// The percentage is always derived here - stored or submitted values are
// ignored so the field can never drift.
func ResolvePricing(batchRegular, batchDiscount *float64, course *models.Course) Pricing {
	regular := course.RegularPrice
	if batchRegular != nil {
		regular = *batchRegular
	}

	discount := 0.0
	if batchDiscount != nil {
		discount = *batchDiscount
	} else if course.DiscountPrice != nil {
		discount = *course.DiscountPrice
	}

	return Pricing{
		RegularPrice:       regular,
		DiscountPrice:      discount,
		DiscountPercentage: DiscountPercentage(regular, discount),
	}
}

// DiscountPercentage derives round(((regular-discount)/regular)*100). It is 0
// when there is no usable discount: discount missing, discount >= regular, or
// a non-positive regular price.
func DiscountPercentage(regular, discount float64) int {
	if regular <= 0 || discount <= 0 || discount >= regular {
		return 0
	}
	return int(math.Round((regular - discount) / regular * 100))
}
