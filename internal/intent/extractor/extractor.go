// internal/intent/extractor/extractor.go
package extractor

import (
	"sort"
	"strconv"
	"strings"

	"discard-copilot/internal/models"
)

const (
	baseConfidence  = 0.70
	maxConfidence   = 0.95
	amountWeight    = 0.90
	currencyWeight  = 0.85
	merchantWeight  = 0.70
	confidenceScale = 0.30
)

// DetectAction scans normalized text against the ordered action table and
// returns the best-scoring action with its confidence. Confidence grows with
// the fraction of the text the pattern consumed:
//
//	min(0.95, 0.70 + matchLen/textLen*0.30)
//
// A later action only displaces an earlier one with a strictly greater
// score, so ties resolve to table order. Unknown text scores zero.
func DetectAction(text string) (models.ActionType, float64) {
	if len(text) == 0 {
		return models.ActionUnknown, 0
	}

	best := models.ActionUnknown
	bestConfidence := 0.0

	for _, entry := range actionTable {
		for _, pattern := range entry.patterns {
			loc := pattern.FindStringIndex(text)
			if loc == nil {
				continue
			}
			matchLen := float64(loc[1] - loc[0])
			confidence := baseConfidence + matchLen/float64(len(text))*confidenceScale
			if confidence > maxConfidence {
				confidence = maxConfidence
			}
			if confidence > bestConfidence {
				best = entry.action
				bestConfidence = confidence
			}
		}
	}

	return best, bestConfidence
}

// ExtractEntities pulls amount, currency and merchant mentions out of
// normalized text. At most maxEntities are returned, ordered by position.
func ExtractEntities(text string, maxEntities int) []models.ExtractedEntity {
	var entities []models.ExtractedEntity

	if e := extractAmount(text); e != nil {
		entities = append(entities, *e)
	}
	if e := extractCurrency(text); e != nil {
		entities = append(entities, *e)
	}
	if e := extractMerchant(text); e != nil {
		entities = append(entities, *e)
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].StartIndex < entities[j].StartIndex
	})

	if maxEntities > 0 && len(entities) > maxEntities {
		entities = entities[:maxEntities]
	}
	return entities
}

// extractAmount tries each amount pattern in priority order and stops at the
// first hit. A "k" suffix on a value below 1000 multiplies it by 1000, so
// "5k" and "$5k" both read as 5000.
func extractAmount(text string) *models.ExtractedEntity {
	for _, pattern := range amountPatterns {
		m := pattern.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}

		raw := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		hasK := m[4] >= 0 && m[5] > m[4]
		if hasK && value < 1000 {
			value *= 1000
		}

		return &models.ExtractedEntity{
			Type:       models.EntityAmount,
			Value:      strconv.FormatFloat(value, 'f', -1, 64),
			Confidence: amountWeight,
			StartIndex: m[0],
			EndIndex:   m[1],
		}
	}
	return nil
}

func extractCurrency(text string) *models.ExtractedEntity {
	m := currencyPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return nil
	}
	return &models.ExtractedEntity{
		Type:       models.EntityCurrency,
		Value:      strings.ToUpper(text[m[2]:m[3]]),
		Confidence: currencyWeight,
		StartIndex: m[0],
		EndIndex:   m[1],
	}
}

// extractMerchant looks for a short word run after "at", "to", "from" or
// "for" and keeps the leading words that are not stop words. The heuristic
// is deliberately loose; downstream steps validate against the merchant
// registry.
func extractMerchant(text string) *models.ExtractedEntity {
	for _, m := range merchantPattern.FindAllStringSubmatchIndex(text, -1) {
		capture := text[m[2]:m[3]]
		words := strings.Fields(capture)

		var kept []string
		for _, w := range words {
			if merchantStopWords[w] {
				break
			}
			kept = append(kept, w)
		}
		if len(kept) == 0 {
			continue
		}

		name := strings.Join(kept, " ")
		return &models.ExtractedEntity{
			Type:       models.EntityMerchant,
			Value:      name,
			Confidence: merchantWeight,
			StartIndex: m[2],
			EndIndex:   m[2] + len(name),
		}
	}
	return nil
}
