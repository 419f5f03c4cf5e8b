package verify

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"labelcheck/pkg/ocr"
)

// Volume patterns for the three supported unit families. As with alcohol
// extraction these run on the raw text to preserve decimal points.
var (
	mlVolumeRE = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*ml\b`)
	ozVolumeRE = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(?:fl\.?\s*)?oz\b`)
	lVolumeRE  = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*l(?:iter|itre)?s?\b`)
)

// Fixed conversion factors to milliliters.
const (
	mlPerOz    = 29.5735
	mlPerLiter = 1000
)

type volumeCandidate struct {
	ml  float64
	raw string
}

// MatchNetContents verifies the claimed net volume. Everything is converted
// to milliliters before comparing, so "750 mL" matches "25.36 oz".
func MatchNetContents(expected string, merged *ocr.MergedResult, cfg MatchingConfig) FieldVerification {
	fv := FieldVerification{Field: FieldNetContents, Expected: expected}
	expML, err := parseVolume(expected)
	if err != nil {
		fv.Status = StatusNotFound
		fv.Message = fmt.Sprintf("cannot parse claimed net contents %q", expected)
		return fv
	}

	cands := extractVolumes(merged.Text)
	if len(cands) == 0 {
		fv.Status = StatusNotFound
		fv.Message = "no volume found on label"
		return fv
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if math.Abs(c.ml-expML) < math.Abs(best.ml-expML) {
			best = c
		}
	}

	fv.Found = best.raw
	relDiff := math.Abs(best.ml-expML) / expML
	if relDiff <= cfg.VolumeRelTolerance {
		fv.Status = StatusMatch
		fv.Confidence = 95
		fv.Message = fmt.Sprintf("net contents %s matches claimed %s", best.raw, expected)
	} else {
		fv.Status = StatusMismatch
		fv.Confidence = 40
		fv.Message = fmt.Sprintf("label shows %s (%.0f mL), claimed %s (%.0f mL)",
			best.raw, best.ml, expected, expML)
	}

	fv.BBoxes = FindBBoxesForAngle(best.raw, merged.Primary(), merged.PrimaryAngle,
		merged.ImageWidth, merged.ImageHeight, BBoxOptions{
			MinConfidence:  cfg.MinWordConfidence,
			MaxResults:     3,
			MergeThreshold: cfg.MergeThreshold,
		})
	return fv
}

// parseVolume converts a "<value> <unit>" string to milliliters.
func parseVolume(s string) (float64, error) {
	for _, p := range []struct {
		re     *regexp.Regexp
		factor float64
	}{
		{mlVolumeRE, 1},
		{ozVolumeRE, mlPerOz},
		{lVolumeRE, mlPerLiter},
	} {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		if v <= 0 {
			return 0, fmt.Errorf("non-positive volume in %q", s)
		}
		return v * p.factor, nil
	}
	return 0, fmt.Errorf("no volume in %q", s)
}

// extractVolumes collects every volume-like token across the unit patterns.
func extractVolumes(text string) []volumeCandidate {
	var out []volumeCandidate
	seen := map[string]struct{}{}
	add := func(m []string, factor float64) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 {
			return
		}
		raw := strings.Join(strings.Fields(strings.TrimSpace(m[0])), " ")
		if _, ok := seen[raw]; ok {
			return
		}
		seen[raw] = struct{}{}
		out = append(out, volumeCandidate{ml: v * factor, raw: raw})
	}
	for _, m := range mlVolumeRE.FindAllStringSubmatch(text, -1) {
		add(m, 1)
	}
	for _, m := range ozVolumeRE.FindAllStringSubmatch(text, -1) {
		add(m, mlPerOz)
	}
	for _, m := range lVolumeRE.FindAllStringSubmatch(text, -1) {
		add(m, mlPerLiter)
	}
	return out
}
