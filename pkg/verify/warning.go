package verify

import (
	"fmt"
	"math"
	"strings"

	"labelcheck/pkg/ocr"
)

// requiredWarningPhrases is the checklist for the mandatory government
// warning. The ratio of phrases present decides the outcome.
var requiredWarningPhrases = []string{
	"government warning",
	"surgeon general",
	"pregnant",
	"birth defects",
	"impairs",
	"health problems",
}

// WarningExpected is the reported expected value for the warning field.
const WarningExpected = "GOVERNMENT WARNING"

// MatchWarning verifies the mandatory warning text. Warning blocks are often
// printed vertically along the label edge, so the bbox lookup always searches
// every rotation attempt with a lower confidence floor and a larger merge
// threshold.
func MatchWarning(merged *ocr.MergedResult, cfg MatchingConfig) FieldVerification {
	fv := FieldVerification{Field: FieldWarning, Expected: WarningExpected}
	text := normalizeText(merged.Text)

	present := 0
	var missing []string
	for _, phrase := range requiredWarningPhrases {
		if phrasePresent(phrase, text) {
			present++
		} else {
			missing = append(missing, phrase)
		}
	}

	total := len(requiredWarningPhrases)
	ratio := float64(present) / float64(total)
	switch {
	case present == 0:
		fv.Status = StatusNotFound
		fv.Message = "government warning not found on label"
		return fv
	case ratio >= cfg.WarningPhraseRatio:
		fv.Status = StatusMatch
		fv.Confidence = math.Round(ratio * 100)
		fv.Found = WarningExpected
		fv.Message = fmt.Sprintf("government warning present (%d/%d phrases)", present, total)
	default:
		fv.Status = StatusMismatch
		fv.Confidence = math.Round(ratio * 100)
		fv.Message = fmt.Sprintf("incomplete government warning (%d/%d phrases, %.0f%%); missing: %s",
			present, total, ratio*100, strings.Join(missing, ", "))
	}

	fv.BBoxes = FindBBoxesAcrossRotations("government warning", merged.ByAngle,
		merged.ImageWidth, merged.ImageHeight, BBoxOptions{
			MinConfidence:  cfg.WarningWordConfidence,
			MaxResults:     4,
			MergeThreshold: cfg.WarningMergeThreshold,
		})
	return fv
}

// phrasePresent accepts a full substring hit, or, for multi-word phrases, at
// least half of the significant words being present. OCR routinely drops one
// word of a two-word header.
func phrasePresent(phrase, text string) bool {
	if strings.Contains(text, phrase) {
		return true
	}
	words := strings.Fields(phrase)
	if len(words) < 2 {
		return false
	}
	found := 0
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if strings.Contains(text, w) {
			found++
		}
	}
	return float64(found) >= float64(len(words))/2
}
