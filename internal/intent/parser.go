// internal/intent/parser.go
package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/intent/extractor"
	"discard-copilot/internal/models"
)

// ==========================
// PARSER
// ==========================

// Parser turns free-form user text into a ParsedIntent, deciding along the
// way whether the copilot has enough signal to act or needs to ask back.
type Parser struct {
	cfg config.IntentConfig
	log logger.Logger
}

// ParseResult is the parser's full answer: the intent plus an optional
// clarification request when the text was too ambiguous to act on.
type ParseResult struct {
	Intent             *models.ParsedIntent  `json:"intent"`
	NeedsClarification bool                  `json:"needsClarification"`
	Clarification      *ClarificationRequest `json:"clarification,omitempty"`
}

func NewParser(cfg config.IntentConfig, log logger.Logger) *Parser {
	return &Parser{cfg: cfg, log: log}
}

var (
	disallowedChars = regexp.MustCompile(`[^\w\s$.,@-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the text, strips characters outside the small set
// the extractors understand and collapses whitespace runs.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = disallowedChars.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Parse runs the full pipeline: normalize, detect the action, extract
// entities, lift them into typed fields and decide on clarification.
func (p *Parser) Parse(rawText string) *ParseResult {
	normalized := Normalize(rawText)

	action, confidence := extractor.DetectAction(normalized)
	entities := extractor.ExtractEntities(normalized, p.cfg.MaxEntities)

	parsed := &models.ParsedIntent{
		IntentID:   uuid.New().String(),
		Action:     action,
		Confidence: confidence,
		Entities:   entities,
		RawText:    rawText,
		ParsedAt:   time.Now().UTC(),
	}
	p.liftEntities(parsed)
	p.assignEndpoints(parsed)

	result := &ParseResult{Intent: parsed}
	if clarification := p.checkClarification(parsed); clarification != nil {
		result.NeedsClarification = true
		result.Clarification = clarification
	}

	p.log.Debug("Parsed intent", map[string]interface{}{
		"intentId":           parsed.IntentID,
		"action":             string(parsed.Action),
		"confidence":         parsed.Confidence,
		"entities":           len(parsed.Entities),
		"needsClarification": result.NeedsClarification,
	})
	return result
}

// liftEntities promotes extracted entities into the intent's typed fields.
// Amounts arrive as decimal unit strings and are stored in cents.
func (p *Parser) liftEntities(intent *models.ParsedIntent) {
	intent.Currency = p.cfg.DefaultCurrency

	for _, e := range intent.Entities {
		switch e.Type {
		case models.EntityAmount:
			units, err := strconv.ParseFloat(e.Value, 64)
			if err != nil {
				continue
			}
			cents := int64(math.Round(units * 100))
			intent.Amount = &cents
		case models.EntityCurrency:
			intent.Currency = e.Value
		case models.EntityMerchant:
			intent.Merchant = e.Value
		}
	}
}

// assignEndpoints fills source/target per action. These describe where
// value moves, not how; the planner owns the how.
func (p *Parser) assignEndpoints(intent *models.ParsedIntent) {
	switch intent.Action {
	case models.ActionFundCard:
		intent.SourceType, intent.TargetType = "wallet", "card"
	case models.ActionTransfer:
		intent.SourceType, intent.TargetType = "wallet", "external"
	case models.ActionSwap:
		intent.SourceType, intent.TargetType = "wallet", "wallet"
	case models.ActionWithdrawDefi:
		intent.SourceType, intent.TargetType = "defi", "wallet"
	case models.ActionDepositDefi:
		intent.SourceType, intent.TargetType = "wallet", "defi"
	case models.ActionBuyCrypto:
		intent.SourceType, intent.TargetType = "fiat", "wallet"
	case models.ActionSellCrypto:
		intent.SourceType, intent.TargetType = "wallet", "fiat"
	case models.ActionPayBill, models.ActionPayMerchant:
		intent.SourceType, intent.TargetType = "card", "merchant"
	}
}

// actionsRequiringAmount lists money-movement actions that cannot proceed
// without a concrete figure. Goal-creation actions are exempt even though
// they often mention amounts.
var actionsRequiringAmount = map[models.ActionType]bool{
	models.ActionFundCard: true,
	models.ActionTransfer: true,
	models.ActionSwap:     true,
}

func (p *Parser) checkClarification(intent *models.ParsedIntent) *ClarificationRequest {
	if intent.Confidence < p.cfg.ClarificationThreshold {
		return newUnknownIntentClarification()
	}

	if actionsRequiringAmount[intent.Action] && intent.Amount == nil && !intent.Action.IsGoalAction() {
		return newMissingFieldClarification(intent.Action, "amount")
	}
	if intent.Action == models.ActionPayBill && intent.Merchant == "" {
		return newMissingFieldClarification(intent.Action, "merchant")
	}

	if intent.Confidence < p.cfg.ConfidenceThreshold {
		return newLowConfidenceClarification(intent.Action)
	}
	return nil
}
