// internal/intent/extractor/patterns.go
package extractor

import (
	"regexp"

	"discard-copilot/internal/models"
)

// actionPatterns binds one action to the regexes that recognize it.
// Declaration order is significant: when two actions score identical
// confidence, the one declared first wins (strict-greater comparison in
// DetectAction).
type actionPatterns struct {
	action   models.ActionType
	patterns []*regexp.Regexp
}

// actionTable is process-wide immutable data, built once at init.
var actionTable = []actionPatterns{
	{
		action: models.ActionFundCard,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:fund|top\s?up|load|reload)\b.{0,20}\bcard\b`),
			regexp.MustCompile(`\badd\b.{0,20}\b(?:to|onto)\s+(?:my\s+)?card\b`),
			regexp.MustCompile(`\bput\b.{0,20}\bon\s+(?:my\s+)?card\b`),
		},
	},
	{
		action: models.ActionSwap,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bswap\b`),
			regexp.MustCompile(`\bconvert\b`),
			regexp.MustCompile(`\bexchange\b.{0,20}\b(?:for|to|into)\b`),
		},
	},
	{
		action: models.ActionTransfer,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\btransfer\b`),
			regexp.MustCompile(`\bsend\b.{0,30}\b(?:to|money|funds|usdc|sol)\b`),
			regexp.MustCompile(`\bwire\b`),
		},
	},
	{
		action: models.ActionPayBill,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bpay\b.{0,20}\b(?:bill|bills|rent|invoice|subscription)\b`),
			regexp.MustCompile(`\bpay\s+(?:my\s+)?(?:phone|electric|internet|utility)\b`),
		},
	},
	{
		action: models.ActionPayMerchant,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bpay\b`),
			regexp.MustCompile(`\bcheckout\b`),
		},
	},
	{
		action: models.ActionCheckBalance,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bbalance\b`),
			regexp.MustCompile(`\bhow much\b.{0,20}\b(?:have|left|money)\b`),
		},
	},
	{
		action: models.ActionViewTransactions,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:transactions?|history|activity|statement)\b`),
			regexp.MustCompile(`\bwhat did i spend\b`),
		},
	},
	{
		action: models.ActionWithdrawDefi,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bwithdraw\b.{0,30}\b(?:defi|yield|vault|position|pool)\b`),
			regexp.MustCompile(`\bunstake\b`),
			regexp.MustCompile(`\bwithdraw\b`),
		},
	},
	{
		action: models.ActionDepositDefi,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:deposit|stake)\b.{0,30}\b(?:defi|yield|vault|pool)\b`),
			regexp.MustCompile(`\bstake\b`),
			regexp.MustCompile(`\bearn yield\b`),
		},
	},
	{
		action: models.ActionBuyCrypto,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bbuy\b.{0,20}\b(?:sol|eth|btc|usdc|crypto|token)\b`),
			regexp.MustCompile(`\bpurchase\b.{0,20}\bcrypto\b`),
		},
	},
	{
		action: models.ActionSellCrypto,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bsell\b.{0,20}\b(?:sol|eth|btc|usdc|crypto|token)\b`),
			regexp.MustCompile(`\bcash out\b`),
		},
	},
	{
		action: models.ActionUnfreezeCard,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:unfreeze|unlock|unpause|reactivate)\b.{0,15}\bcard\b`),
		},
	},
	{
		action: models.ActionFreezeCard,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:freeze|lock|pause|disable)\b.{0,15}\bcard\b`),
		},
	},
	{
		action: models.ActionCreateCard,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:new|create|issue|get)\b.{0,15}\b(?:virtual\s+)?card\b`),
		},
	},
	{
		action: models.ActionCreateDCA,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bdca\b`),
			regexp.MustCompile(`\bdollar.?cost\b`),
			regexp.MustCompile(`\brecurring\b.{0,15}\b(?:buy|purchase|investment)\b`),
		},
	},
	{
		action: models.ActionCreateGoal,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bsavings?\s+goal\b`),
			regexp.MustCompile(`\bsave\b.{0,10}\bfor\b`),
		},
	},
	{
		action: models.ActionCreateSavingsRule,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bround.?ups?\b`),
			regexp.MustCompile(`\bsavings?\s+rule\b`),
			regexp.MustCompile(`\bauto.?save\b`),
		},
	},
	{
		action: models.ActionSetSpendingLimit,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bspending\s+limit\b`),
			regexp.MustCompile(`\blimit\b.{0,15}\bspending\b`),
		},
	},
	{
		action: models.ActionGetHelp,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`\bhelp\b`),
			regexp.MustCompile(`\bwhat can you do\b`),
		},
	},
}

// Amount extraction alternatives, tried in fixed priority order; the first
// pattern that matches wins and the rest are skipped.
var amountPatterns = []*regexp.Regexp{
	// $1,234.56 / $5k
	regexp.MustCompile(`\$([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s?(k)?\b`),
	// 1.5k / 200k
	regexp.MustCompile(`\b([0-9][0-9,]*(?:\.[0-9]+)?)(k)\b`),
	// 200 usdc / 3 sol / 50 dollars
	regexp.MustCompile(`\b([0-9][0-9,]*(?:\.[0-9]+)?)()\s?(?:usdc|usdt|usd|dai|sol|eth|btc|dollars?|bucks)\b`),
	// bare number
	regexp.MustCompile(`\b([0-9][0-9,]*(?:\.[0-9]{1,2})?)()\b`),
}

// Single union regex for currency mentions.
var currencyPattern = regexp.MustCompile(`\b(usdc|usdt|usd|dai|sol|eth|btc|bonk)\b`)

// Merchant heuristic: a short word run after a preposition.
var merchantPattern = regexp.MustCompile(`\b(?:at|to|from|for)\s+([a-z][\w.@'-]*(?:\s+[a-z][\w.@'-]*){0,2})`)

// merchantStopWords filters preposition captures that are not merchants.
var merchantStopWords = map[string]bool{
	"me": true, "my": true, "mine": true, "the": true, "a": true, "an": true,
	"it": true, "this": true, "that": true, "card": true, "wallet": true,
	"account": true, "balance": true, "defi": true, "yield": true,
	"money": true, "funds": true, "cash": true, "now": true, "today": true,
	"please": true, "usdc": true, "usdt": true, "usd": true, "sol": true,
	"eth": true, "btc": true, "dai": true, "crypto": true, "savings": true,
}
