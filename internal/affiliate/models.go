package affiliate

import "time"

// Affiliate is a referral partner. PayoutAccount is stored encrypted when a
// payout key is configured; the JSON form always carries the plaintext the
// caller supplied or the decrypted value.
type Affiliate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ReferralCode   string    `json:"referral_code"`
	CommissionRate float64   `json:"commission_rate"`
	PayoutAccount  string    `json:"payout_account,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateAffiliateInput holds the fields required to create an affiliate.
// ReferralCode is generated when empty.
type CreateAffiliateInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ReferralCode   string  `json:"referral_code"`
	CommissionRate float64 `json:"commission_rate"`
	PayoutAccount  string  `json:"payout_account"`
	Active         bool    `json:"active"`
}

// UpdateAffiliateInput holds optional fields for a partial affiliate update.
type UpdateAffiliateInput struct {
	Name           *string  `json:"name,omitempty"`
	Email          *string  `json:"email,omitempty"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
	PayoutAccount  *string  `json:"payout_account,omitempty"`
	Active         *bool    `json:"active,omitempty"`
}
