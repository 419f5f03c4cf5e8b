package verify

import (
	"fmt"
	"math"
	"strings"

	"labelcheck/pkg/ocr"
)

// MatchBrandName verifies the claimed brand against the merged OCR text.
// Containment wins outright; otherwise the best edit-distance similarity over
// lines and word windows, then a word-presence ratio, are tried in turn.
func MatchBrandName(expected string, merged *ocr.MergedResult, cfg MatchingConfig) FieldVerification {
	fv := FieldVerification{Field: FieldBrandName, Expected: expected}
	norm := normalizeText(expected)
	if norm == "" {
		fv.Status = StatusNotFound
		fv.Message = "no brand name claimed"
		return fv
	}
	text := normalizeText(merged.Text)

	switch {
	case strings.Contains(text, norm):
		fv.Status = StatusMatch
		fv.Confidence = 100
		fv.Found = expected
		fv.Message = "brand name found on label"
	default:
		if sim := bestSimilarity(norm, merged); sim >= cfg.BrandFuzzyThreshold {
			fv.Status = StatusMatch
			fv.Confidence = sim
			fv.Found = expected
			fv.Message = fmt.Sprintf("brand name matched at %.0f%% similarity", sim)
			break
		}
		ratio, present := wordPresenceRatio(norm, text)
		if ratio >= cfg.BrandWordRatio {
			fv.Status = StatusMatch
			fv.Confidence = math.Round(ratio * 100)
			fv.Found = strings.Join(present, " ")
			fv.Message = fmt.Sprintf("%d of %d brand words found", len(present), countSignificantWords(norm))
		} else {
			fv.Status = StatusNotFound
			fv.Message = "brand name not found on label"
			return fv
		}
	}

	fv.BBoxes = FindBBoxesForAngle(expected, merged.Primary(), merged.PrimaryAngle,
		merged.ImageWidth, merged.ImageHeight, BBoxOptions{
			MinConfidence:  cfg.MinWordConfidence,
			MaxResults:     2, // avoid highlighting unrelated body text
			PreferLarger:   true,
			PreferTop:      true,
			MergeThreshold: cfg.MergeThreshold,
		})
	return fv
}

// bestSimilarity takes the best edit-distance similarity between the target
// and either a text line or a window of the same word length, so a brand
// buried mid-line still gets a fair comparison.
func bestSimilarity(target string, merged *ocr.MergedResult) float64 {
	best := 0.0
	for _, raw := range strings.Split(merged.Text, "\n") {
		line := normalizeText(raw)
		if line == "" {
			continue
		}
		if sim := similarityPercent(target, line); sim > best {
			best = sim
		}
	}
	targetTokens := strings.Fields(target)
	n := len(targetTokens)
	if n == 0 {
		return best
	}
	var tokens []string
	for _, w := range merged.Words {
		if t := normalizeText(w.Text); t != "" {
			tokens = append(tokens, t)
		}
	}
	for i := 0; i+n <= len(tokens); i++ {
		window := strings.Join(tokens[i:i+n], " ")
		if sim := similarityPercent(target, window); sim > best {
			best = sim
		}
	}
	return best
}

// wordPresenceRatio reports the fraction of significant words (length > 2)
// present in the text as substrings, and the words that were found.
func wordPresenceRatio(norm, text string) (float64, []string) {
	var total int
	var present []string
	for _, word := range strings.Fields(norm) {
		if len(word) <= 2 {
			continue
		}
		total++
		if strings.Contains(text, word) {
			present = append(present, word)
		}
	}
	if total == 0 {
		return 0, nil
	}
	return float64(len(present)) / float64(total), present
}

func countSignificantWords(norm string) int {
	n := 0
	for _, word := range strings.Fields(norm) {
		if len(word) > 2 {
			n++
		}
	}
	return n
}
