package verify

import (
	"fmt"
	"strings"

	"labelcheck/pkg/ocr"
)

// classVariations maps canonical product classes to label wordings that mean
// the same thing. Lookups run in both directions.
var classVariations = map[string][]string{
	"bourbon":   {"kentucky straight bourbon", "straight bourbon", "bourbon whiskey"},
	"whiskey":   {"whisky", "straight whiskey", "rye whiskey"},
	"ipa":       {"india pale ale"},
	"ale":       {"pale ale", "amber ale", "golden ale"},
	"lager":     {"pilsner", "pale lager"},
	"wine":      {"red wine", "white wine", "table wine"},
	"vodka":     {"distilled vodka"},
	"rum":       {"distilled rum"},
	"cider":     {"hard cider"},
	"malt beverage": {"flavored malt beverage"},
}

// MatchProductClass verifies the claimed product class/type.
func MatchProductClass(expected string, merged *ocr.MergedResult, cfg MatchingConfig) FieldVerification {
	fv := FieldVerification{Field: FieldProductClass, Expected: expected}
	norm := normalizeText(expected)
	if norm == "" {
		fv.Status = StatusNotFound
		fv.Message = "no product class claimed"
		return fv
	}
	text := normalizeText(merged.Text)

	switch {
	case strings.Contains(text, norm):
		fv.Status = StatusMatch
		fv.Confidence = 100
		fv.Found = expected
		fv.Message = "product class found on label"
	case reverseContained(norm, merged):
		// label carries an abbreviation of the claimed class
		fv.Status = StatusMatch
		fv.Confidence = 95
		fv.Found = expected
		fv.Message = "label text is an abbreviation of the claimed class"
	default:
		if variant, ok := variationPresent(norm, text); ok {
			fv.Status = StatusMatch
			fv.Confidence = 90
			fv.Found = variant
			fv.Message = fmt.Sprintf("known variation %q found on label", variant)
			break
		}
		if sim := bestSimilarity(norm, merged); sim >= cfg.ClassFuzzyThreshold {
			fv.Status = StatusMatch
			fv.Confidence = sim
			fv.Found = expected
			fv.Message = fmt.Sprintf("product class matched at %.0f%% similarity", sim)
			break
		}
		fv.Status = StatusNotFound
		fv.Message = "product class not found on label"
		return fv
	}

	pattern := expected
	if fv.Found != "" {
		pattern = fv.Found
	}
	fv.BBoxes = FindBBoxesForAngle(pattern, merged.Primary(), merged.PrimaryAngle,
		merged.ImageWidth, merged.ImageHeight, BBoxOptions{
			MinConfidence:  cfg.MinWordConfidence,
			MaxResults:     2,
			PreferLarger:   true,
			MergeThreshold: cfg.MergeThreshold,
		})
	return fv
}

// reverseContained reports whether some recognized line is itself a fragment
// or prefix of the claimed class (e.g. label says "bourbon", claim says
// "kentucky straight bourbon").
func reverseContained(norm string, merged *ocr.MergedResult) bool {
	for _, raw := range strings.Split(merged.Text, "\n") {
		line := normalizeText(raw)
		if len(line) < 3 {
			continue
		}
		if strings.Contains(norm, line) {
			return true
		}
	}
	return false
}

// variationPresent checks the synonym table in both directions and returns
// the wording that actually appears on the label.
func variationPresent(norm, text string) (string, bool) {
	for canonical, variants := range classVariations {
		if norm == canonical || containsAny([]string{norm}, variants) {
			if strings.Contains(text, canonical) {
				return canonical, true
			}
			for _, v := range variants {
				if strings.Contains(text, v) {
					return v, true
				}
			}
		}
		if strings.Contains(norm, canonical) {
			for _, v := range variants {
				if strings.Contains(text, v) {
					return v, true
				}
			}
		}
	}
	return "", false
}

func containsAny(targets, values []string) bool {
	for _, t := range targets {
		for _, v := range values {
			if t == v {
				return true
			}
		}
	}
	return false
}
