// internal/intent/clarification.go
package intent

import (
	"fmt"

	"discard-copilot/internal/models"
)

// ==========================
// CLARIFICATION
// ==========================

// ClarificationRequest is what the copilot asks back when the text was too
// ambiguous or incomplete to act on.
type ClarificationRequest struct {
	Question     string   `json:"question"`
	MissingField string   `json:"missingField,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// cannedSuggestions is the fixed menu shown when we could not work out what
// the user wants at all. Order is part of the product surface.
var cannedSuggestions = []string{
	"Fund my card with $50",
	"Send $20 to a friend",
	"Swap 100 USDC for SOL",
	"Pay my phone bill",
	"Check my balance",
	"Freeze my card",
	"Show my recent transactions",
}

// actionVerbs phrases each action for "Did you want to ...?" questions.
var actionVerbs = map[models.ActionType]string{
	models.ActionFundCard:          "fund your card",
	models.ActionTransfer:          "send money",
	models.ActionSwap:              "swap tokens",
	models.ActionPayBill:           "pay a bill",
	models.ActionPayMerchant:       "pay a merchant",
	models.ActionCheckBalance:      "check your balance",
	models.ActionViewTransactions:  "view your transactions",
	models.ActionWithdrawDefi:      "withdraw from DeFi",
	models.ActionDepositDefi:       "deposit into DeFi",
	models.ActionBuyCrypto:         "buy crypto",
	models.ActionSellCrypto:        "sell crypto",
	models.ActionFreezeCard:        "freeze your card",
	models.ActionUnfreezeCard:      "unfreeze your card",
	models.ActionCreateCard:        "create a new card",
	models.ActionCreateDCA:         "set up a recurring buy",
	models.ActionCreateGoal:        "create a savings goal",
	models.ActionCreateSavingsRule: "set up a savings rule",
	models.ActionSetSpendingLimit:  "set a spending limit",
	models.ActionGetHelp:           "get help",
}

func newUnknownIntentClarification() *ClarificationRequest {
	return &ClarificationRequest{
		Question:    "I'm not sure what you'd like to do. Here are some things I can help with:",
		Suggestions: cannedSuggestions,
	}
}

func newMissingFieldClarification(action models.ActionType, field string) *ClarificationRequest {
	verb := actionVerbs[action]
	var question string
	switch field {
	case "amount":
		question = fmt.Sprintf("How much would you like to %s with?", verb)
	case "merchant":
		question = fmt.Sprintf("Who would you like to %s to?", verb)
	default:
		question = fmt.Sprintf("I need a bit more detail to %s.", verb)
	}
	return &ClarificationRequest{
		Question:     question,
		MissingField: field,
	}
}

func newLowConfidenceClarification(action models.ActionType) *ClarificationRequest {
	verb, ok := actionVerbs[action]
	if !ok {
		return newUnknownIntentClarification()
	}
	return &ClarificationRequest{
		Question:    fmt.Sprintf("Did you want to %s?", verb),
		Suggestions: []string{"Yes", "No, something else"},
	}
}
