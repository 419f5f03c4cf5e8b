package verify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"labelcheck/pkg/ocr"
)

// Alcohol notation patterns, most to least reliable. Extraction runs against
// the raw merged text (not the stripped normalization) because the decimal
// points matter.
var (
	alcVolRE    = regexp.MustCompile(`(?i)([0-9]{1,2}(?:\.[0-9]+)?)\s*%?\s*alc[\s./]*(?:by\s+)?vol`)
	alcVolRevRE = regexp.MustCompile(`(?i)alc[\s./]*(?:by\s+)?vol[\s.:]*([0-9]{1,2}(?:\.[0-9]+)?)\s*%?`)
	abvRE       = regexp.MustCompile(`(?i)([0-9]{1,2}(?:\.[0-9]+)?)\s*%?\s*abv`)
	abvRevRE    = regexp.MustCompile(`(?i)abv[\s.:]*([0-9]{1,2}(?:\.[0-9]+)?)\s*%?`)
	proofRE     = regexp.MustCompile(`(?i)([0-9]{1,3}(?:\.[0-9]+)?)\s*proof`)
	percentRE   = regexp.MustCompile(`([0-9]{1,2}(?:\.[0-9]+)?)\s*%`)
	numberRE    = regexp.MustCompile(`[0-9]{1,3}(?:\.[0-9]+)?`)
)

// Bare percentage tokens outside this range are almost never alcohol content
// (vintages, sizes, discounts), so they are ignored.
const (
	minPlausibleABV = 0.5
	maxPlausibleABV = 20
)

type alcoholCandidate struct {
	value  float64
	raw    string
	weight float64 // 0-100 confidence proxy
}

// MatchAlcoholContent verifies the claimed alcohol percentage. Notation-based
// extraction runs first; a word-window scan around alcohol keywords recovers
// values whose notation was broken by OCR punctuation errors.
func MatchAlcoholContent(expected string, merged *ocr.MergedResult, cfg MatchingConfig) FieldVerification {
	fv := FieldVerification{Field: FieldAlcoholContent, Expected: expected}
	expVal, err := parseExpectedPercent(expected)
	if err != nil {
		fv.Status = StatusNotFound
		fv.Message = fmt.Sprintf("cannot parse claimed alcohol content %q", expected)
		return fv
	}

	cands := extractAlcoholByNotation(merged.Text)
	cands = append(cands, scanAlcoholByKeyword(merged.Words)...)
	if len(cands) == 0 {
		fv.Status = StatusNotFound
		fv.Message = "no alcohol content found on label"
		return fv
	}

	best := cands[0]
	for _, c := range cands[1:] {
		bd := math.Abs(best.value - expVal)
		cd := math.Abs(c.value - expVal)
		if cd < bd || (cd == bd && c.weight > best.weight) {
			best = c
		}
	}

	diff := math.Abs(best.value - expVal)
	fv.Found = best.raw
	switch {
	case diff <= cfg.AlcoholExactTolerance:
		fv.Status = StatusMatch
		fv.Confidence = best.weight
		fv.Message = fmt.Sprintf("alcohol content %s matches claimed %s", best.raw, expected)
	case diff <= cfg.AlcoholLooseTolerance:
		fv.Status = StatusMismatch
		fv.Confidence = 50
		fv.Message = fmt.Sprintf("label shows %s, outside tolerance of claimed %s", best.raw, expected)
	default:
		fv.Status = StatusMismatch
		fv.Confidence = 0
		fv.Message = fmt.Sprintf("label shows %s, far from claimed %s", best.raw, expected)
	}

	fv.BBoxes = FindBBoxesForAngle(best.raw, merged.Primary(), merged.PrimaryAngle,
		merged.ImageWidth, merged.ImageHeight, BBoxOptions{
			MinConfidence:  cfg.MinWordConfidence,
			MaxResults:     3,
			MergeThreshold: cfg.MergeThreshold,
		})
	return fv
}

// parseExpectedPercent pulls the first number out of the claimed value, which
// may arrive as "4.0", "4.0%", or "4.0% ABV".
func parseExpectedPercent(expected string) (float64, error) {
	m := numberRE.FindString(expected)
	if m == "" {
		return 0, fmt.Errorf("no number in %q", expected)
	}
	return strconv.ParseFloat(m, 64)
}

// extractAlcoholByNotation tries the notation tiers in priority order and
// stops at the first tier that produces candidates.
func extractAlcoholByNotation(text string) []alcoholCandidate {
	if cands := matchNumberPatterns(text, 90, alcVolRE, alcVolRevRE); len(cands) > 0 {
		return cands
	}
	if cands := matchNumberPatterns(text, 85, abvRE, abvRevRE); len(cands) > 0 {
		return cands
	}
	var cands []alcoholCandidate
	for _, m := range proofRE.FindAllStringSubmatch(text, -1) {
		proof, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		abv := proof / 2
		if abv < minPlausibleABV || abv > maxPlausibleABV*2 {
			continue
		}
		cands = append(cands, alcoholCandidate{
			value:  abv,
			raw:    strings.TrimSpace(m[0]),
			weight: 75,
		})
	}
	if len(cands) > 0 {
		return cands
	}
	for _, m := range percentRE.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < minPlausibleABV || v > maxPlausibleABV {
			continue
		}
		cands = append(cands, alcoholCandidate{value: v, raw: m[1] + "%", weight: 60})
	}
	return cands
}

func matchNumberPatterns(text string, weight float64, patterns ...*regexp.Regexp) []alcoholCandidate {
	var cands []alcoholCandidate
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil || v < minPlausibleABV || v > maxPlausibleABV {
				continue
			}
			cands = append(cands, alcoholCandidate{value: v, raw: m[1] + "%", weight: weight})
		}
	}
	return cands
}

var alcoholKeywords = []string{"alcohol", "alc", "abv", "vol"}

// scanAlcoholByKeyword is the higher-precision second path: it walks the word
// list, and within a window of 5 words around every alcohol keyword collects
// plausible numbers, weighted by the numeric word's own OCR confidence. This
// recovers values where stray punctuation defeated the notation patterns.
func scanAlcoholByKeyword(words []ocr.Word) []alcoholCandidate {
	const window = 5
	var cands []alcoholCandidate
	seen := map[float64]float64{} // value -> best weight
	for i, w := range words {
		if !isAlcoholKeyword(w.Text) {
			continue
		}
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window
		if hi >= len(words) {
			hi = len(words) - 1
		}
		for j := lo; j <= hi; j++ {
			num := numberRE.FindString(words[j].Text)
			if num == "" {
				continue
			}
			v, err := strconv.ParseFloat(num, 64)
			if err != nil || v < minPlausibleABV || v > maxPlausibleABV {
				continue
			}
			if best, ok := seen[v]; !ok || words[j].Confidence > best {
				seen[v] = words[j].Confidence
			}
		}
	}
	for v, weight := range seen {
		cands = append(cands, alcoholCandidate{
			value:  v,
			raw:    strconv.FormatFloat(v, 'f', -1, 64) + "%",
			weight: weight,
		})
	}
	return cands
}

func isAlcoholKeyword(word string) bool {
	low := normalizeText(word)
	for _, kw := range alcoholKeywords {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
