// internal/models/intent.go
package models

import "time"

// ActionType is the closed set of commands the copilot understands.
type ActionType string

const (
	ActionUnknown           ActionType = "unknown"
	ActionFundCard          ActionType = "fund_card"
	ActionTransfer          ActionType = "transfer"
	ActionSwap              ActionType = "swap"
	ActionPayBill           ActionType = "pay_bill"
	ActionPayMerchant       ActionType = "pay_merchant"
	ActionCheckBalance      ActionType = "check_balance"
	ActionViewTransactions  ActionType = "view_transactions"
	ActionWithdrawDefi      ActionType = "withdraw_defi"
	ActionDepositDefi       ActionType = "deposit_defi"
	ActionBuyCrypto         ActionType = "buy_crypto"
	ActionSellCrypto        ActionType = "sell_crypto"
	ActionFreezeCard        ActionType = "freeze_card"
	ActionUnfreezeCard      ActionType = "unfreeze_card"
	ActionCreateCard        ActionType = "create_card"
	ActionCreateDCA         ActionType = "create_dca"
	ActionCreateGoal        ActionType = "create_goal"
	ActionCreateSavingsRule ActionType = "create_savings_rule"
	ActionSetSpendingLimit  ActionType = "set_spending_limit"
	ActionGetHelp           ActionType = "get_help"
	ActionNotifyUser        ActionType = "notify_user"
)

// AllActions lists every member of the action enum, in declaration order.
var AllActions = []ActionType{
	ActionUnknown,
	ActionFundCard,
	ActionTransfer,
	ActionSwap,
	ActionPayBill,
	ActionPayMerchant,
	ActionCheckBalance,
	ActionViewTransactions,
	ActionWithdrawDefi,
	ActionDepositDefi,
	ActionBuyCrypto,
	ActionSellCrypto,
	ActionFreezeCard,
	ActionUnfreezeCard,
	ActionCreateCard,
	ActionCreateDCA,
	ActionCreateGoal,
	ActionCreateSavingsRule,
	ActionSetSpendingLimit,
	ActionGetHelp,
	ActionNotifyUser,
}

// IsValid reports whether the action is a member of the enum.
func (a ActionType) IsValid() bool {
	for _, known := range AllActions {
		if a == known {
			return true
		}
	}
	return false
}

// IsGoalAction reports whether the action belongs to the goal/strategy class
// that is handled by a separate conversational flow instead of field-based
// clarification.
func (a ActionType) IsGoalAction() bool {
	switch a {
	case ActionCreateDCA, ActionCreateGoal, ActionCreateSavingsRule, ActionSetSpendingLimit:
		return true
	}
	return false
}

// EntityType classifies an extracted entity.
type EntityType string

const (
	EntityAmount   EntityType = "amount"
	EntityCurrency EntityType = "currency"
	EntityMerchant EntityType = "merchant"
)

// ExtractedEntity is a typed span found in the user's text.
// StartIndex/EndIndex are rune offsets into the normalized text,
// StartIndex < EndIndex.
type ExtractedEntity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	StartIndex int        `json:"startIndex"`
	EndIndex   int        `json:"endIndex"`
}

// ParsedIntent is the structured interpretation of a free-text command.
// Amount is in minor units (cents); nil means no amount was extracted.
// Entities are ordered by source position.
type ParsedIntent struct {
	IntentID   string            `json:"intentId"`
	Action     ActionType        `json:"action"`
	Confidence float64           `json:"confidence"`
	SourceType string            `json:"sourceType,omitempty"`
	TargetType string            `json:"targetType,omitempty"`
	Amount     *int64            `json:"amount,omitempty"`
	Currency   string            `json:"currency"`
	Merchant   string            `json:"merchant,omitempty"`
	Entities   []ExtractedEntity `json:"entities"`
	RawText    string            `json:"rawText"`
	ParsedAt   time.Time         `json:"parsedAt"`
}

// AmountCents returns the amount in minor units, or 0 when absent.
func (p *ParsedIntent) AmountCents() int64 {
	if p.Amount == nil {
		return 0
	}
	return *p.Amount
}
