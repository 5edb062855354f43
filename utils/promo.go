package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// PromoValidator resolves a promo code to a discount amount. The returned
// value is untrusted input; the invoice ledger clamps it to [0, amount].
type PromoValidator interface {
	Validate(code string, amount float64) (float64, error)
}

// PromoClient calls the external promo-code service over HTTP.
type PromoClient struct {
	client *resty.Client
	apiKey string
}

func NewPromoClient() *PromoClient {
	client := resty.New().SetBaseURL(config.AppConfig.PromoApiURL)
	return &PromoClient{client: client, apiKey: config.AppConfig.PromoApiKey}
}

type promoResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount"`
	Message        string  `json:"message"`
}

// Validate returns the discount amount for a code, or 0 when the code is
// invalid. A misconfigured or unreachable promo service fails the request -
// silently granting or dropping discounts would be worse.
func (p *PromoClient) Validate(code string, amount float64) (float64, error) {
	if config.AppConfig.PromoApiURL == "" {
		return 0, fmt.Errorf("promo service not configured")
	}

	var result promoResponse
	resp, err := p.client.R().
		SetHeader("Authorization", "Bearer "+p.apiKey).
		SetBody(map[string]interface{}{
			"code":   code,
			"amount": amount,
		}).
		SetResult(&result).
		Post("/validate")
	if err != nil {
		log.Printf("[PROMO] Error validating code %s: %v", code, err)
		return 0, err
	}
	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("promo service returned %d", resp.StatusCode())
	}
	if !result.Valid {
		return 0, nil
	}

	return result.DiscountAmount, nil
}
