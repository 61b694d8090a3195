// internal/models/merchant.go
package models

// Merchant risk tiers. Tier 4 merchants are blocked from payment.
const (
	MerchantRiskTrusted  = 1
	MerchantRiskStandard = 2
	MerchantRiskElevated = 3
	MerchantRiskBlocked  = 4
)

// Merchant is a row of the merchant registry consulted before a bill or
// merchant payment executes.
type Merchant struct {
	ID             string `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	VisaMerchantID string `json:"visaMerchantId" db:"visa_merchant_id"`
	MCC            int    `json:"mcc" db:"mcc"`
	RiskTier       int    `json:"riskTier" db:"risk_tier"`
	Active         bool   `json:"active" db:"active"`
}

// ValidMCC reports whether the merchant category code is in the 1..9999 range.
func ValidMCC(mcc int) bool {
	return mcc >= 1 && mcc <= 9999
}

// Payable reports whether payments to this merchant are allowed.
func (m *Merchant) Payable() bool {
	return m.Active && m.RiskTier != MerchantRiskBlocked && ValidMCC(m.MCC)
}
