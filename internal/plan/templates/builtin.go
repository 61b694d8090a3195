// internal/plan/templates/builtin.go
package templates

import "discard-copilot/internal/models"

// builtinTemplates is the static recipe book. Order matters: Find returns
// the first template whose TriggerActions lists the intent's action.
var builtinTemplates = []*Template{
	{
		TemplateID:     "tpl-fund-card",
		Name:           "Fund card",
		Description:    "Move funds from the wallet onto the card",
		TriggerActions: []models.ActionType{models.ActionFundCard},
		Steps: []TemplateStep{
			{
				Action:        "check_balance",
				Description:   "Verify the wallet covers the amount",
				ParameterKeys: []string{"amountCents", "currency"},
				MaxRetries:    2,
			},
			{
				Action:        "policy_check",
				Description:   "Check card status and spending limits",
				ParameterKeys: []string{"amountCents"},
				DependsOn:     []int{0},
			},
			{
				Action:                   "fund_card",
				Description:              "Load the card",
				ParameterKeys:            []string{"amountCents", "currency", "intentId"},
				DependsOn:                []int{1},
				RequiresSoulVerification: true,
				MaxRetries:               2,
			},
			{
				Action:        "notify_user",
				Description:   "Confirm the top-up",
				ParameterKeys: []string{"amountCents", "currency"},
				DependsOn:     []int{2},
				Optional:      true,
			},
		},
	},
	{
		TemplateID:     "tpl-transfer",
		Name:           "Transfer funds",
		Description:    "Send funds from the wallet to an external recipient",
		TriggerActions: []models.ActionType{models.ActionTransfer},
		Steps: []TemplateStep{
			{
				Action:        "check_balance",
				Description:   "Verify the wallet covers the amount",
				ParameterKeys: []string{"amountCents", "currency"},
				MaxRetries:    2,
			},
			{
				Action:        "policy_check",
				Description:   "Check transfer limits",
				ParameterKeys: []string{"amountCents"},
				DependsOn:     []int{0},
			},
			{
				Action:                   "execute_transfer",
				Description:              "Submit the transfer",
				ParameterKeys:            []string{"amountCents", "currency", "merchant", "intentId"},
				DependsOn:                []int{1},
				RequiresSoulVerification: true,
				MaxRetries:               2,
			},
			{
				Action:        "notify_user",
				Description:   "Confirm the transfer",
				ParameterKeys: []string{"amountCents", "currency"},
				DependsOn:     []int{2},
				Optional:      true,
			},
		},
	},
	{
		TemplateID:     "tpl-swap",
		Name:           "Swap tokens",
		Description:    "Exchange one token for another inside the wallet",
		TriggerActions: []models.ActionType{models.ActionSwap},
		Steps: []TemplateStep{
			{
				Action:        "check_balance",
				Description:   "Verify the wallet holds the input token",
				ParameterKeys: []string{"amountCents", "currency"},
				MaxRetries:    2,
			},
			{
				Action:        "policy_check",
				Description:   "Check swap limits",
				ParameterKeys: []string{"amountCents"},
				DependsOn:     []int{0},
			},
			{
				Action:                   "execute_swap",
				Description:              "Execute the swap",
				ParameterKeys:            []string{"amountCents", "currency", "intentId"},
				DependsOn:                []int{1},
				RequiresSoulVerification: true,
				MaxRetries:               2,
			},
			{
				Action:        "notify_user",
				Description:   "Confirm the swap",
				ParameterKeys: []string{"amountCents", "currency"},
				DependsOn:     []int{2},
				Optional:      true,
			},
		},
	},
	{
		TemplateID:     "tpl-pay-bill",
		Name:           "Pay bill",
		Description:    "Pay a registered merchant from the card",
		TriggerActions: []models.ActionType{models.ActionPayBill, models.ActionPayMerchant},
		Steps: []TemplateStep{
			{
				Action:        "merchant_screen",
				Description:   "Screen the merchant against the registry",
				ParameterKeys: []string{"merchant"},
				MaxRetries:    2,
			},
			{
				Action:        "check_balance",
				Description:   "Verify the card covers the amount",
				ParameterKeys: []string{"amountCents", "currency"},
				MaxRetries:    2,
			},
			{
				Action:        "policy_check",
				Description:   "Check card status and spending limits",
				ParameterKeys: []string{"amountCents"},
				DependsOn:     []int{0, 1},
			},
			{
				Action:                   "pay_merchant",
				Description:              "Authorize the payment",
				ParameterKeys:            []string{"amountCents", "currency", "merchant", "intentId"},
				DependsOn:                []int{2},
				RequiresSoulVerification: true,
				MaxRetries:               2,
			},
			{
				Action:        "notify_user",
				Description:   "Confirm the payment",
				ParameterKeys: []string{"amountCents", "merchant"},
				DependsOn:     []int{3},
				Optional:      true,
			},
		},
	},
	{
		TemplateID:     "tpl-withdraw-defi",
		Name:           "Withdraw from DeFi",
		Description:    "Unwind a DeFi position back into the wallet",
		TriggerActions: []models.ActionType{models.ActionWithdrawDefi},
		Steps: []TemplateStep{
			{
				Action:        "check_balance",
				Description:   "Verify the position covers the amount",
				ParameterKeys: []string{"amountCents", "currency", "sourceType"},
				MaxRetries:    2,
			},
			{
				Action:        "policy_check",
				Description:   "Check withdrawal limits",
				ParameterKeys: []string{"amountCents"},
				DependsOn:     []int{0},
			},
			{
				Action:                   "withdraw_defi",
				Description:              "Withdraw the position",
				ParameterKeys:            []string{"amountCents", "currency", "intentId"},
				DependsOn:                []int{1},
				RequiresSoulVerification: true,
				MaxRetries:               2,
			},
			{
				Action:        "notify_user",
				Description:   "Confirm the withdrawal",
				ParameterKeys: []string{"amountCents", "currency"},
				DependsOn:     []int{2},
				Optional:      true,
			},
		},
	},
	{
		TemplateID:     "tpl-freeze-card",
		Name:           "Freeze card",
		Description:    "Freeze the card immediately",
		TriggerActions: []models.ActionType{models.ActionFreezeCard},
		Steps: []TemplateStep{
			{
				Action:                   "freeze_card",
				Description:              "Freeze the card",
				RequiresSoulVerification: true,
			},
			{
				Action:      "notify_user",
				Description: "Confirm the freeze",
				DependsOn:   []int{0},
				Optional:    true,
			},
		},
	},
	{
		TemplateID:     "tpl-unfreeze-card",
		Name:           "Unfreeze card",
		Description:    "Reactivate a frozen card",
		TriggerActions: []models.ActionType{models.ActionUnfreezeCard},
		Steps: []TemplateStep{
			{
				Action:      "unfreeze_card",
				Description: "Unfreeze the card",
			},
			{
				Action:      "notify_user",
				Description: "Confirm the card is active again",
				DependsOn:   []int{0},
				Optional:    true,
			},
		},
	},
}
