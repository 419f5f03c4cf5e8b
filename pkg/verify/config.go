package verify

// MatchingConfig carries every per-field threshold. It is an immutable input
// supplied per verification call; nothing in this package keeps global
// tunables.
type MatchingConfig struct {
	// BrandFuzzyThreshold is the minimum Levenshtein similarity percent for a
	// fuzzy brand match.
	BrandFuzzyThreshold float64
	// BrandWordRatio is the minimum fraction of brand words (length > 2) that
	// must appear in the text.
	BrandWordRatio float64
	// ClassFuzzyThreshold is the minimum similarity percent for a fuzzy
	// product-class match.
	ClassFuzzyThreshold float64
	// AlcoholExactTolerance and AlcoholLooseTolerance are the nested bands, in
	// percentage points, separating match from reported mismatch.
	AlcoholExactTolerance float64
	AlcoholLooseTolerance float64
	// VolumeRelTolerance is the relative tolerance for net-contents values
	// after conversion to milliliters.
	VolumeRelTolerance float64
	// WarningPhraseRatio is the fraction of required warning phrases that must
	// be present.
	WarningPhraseRatio float64
	// MinWordConfidence is the word-confidence floor for exact-word bbox hits.
	MinWordConfidence float64
	// WarningWordConfidence is the lower floor used for the warning field,
	// whose text is often small and printed vertically.
	WarningWordConfidence float64
	// MergeThreshold and WarningMergeThreshold are the pixel limits for
	// combining adjacent boxes on the same visual line.
	MergeThreshold        int
	WarningMergeThreshold int
}

// DefaultConfig returns the tuned thresholds.
func DefaultConfig() MatchingConfig {
	return MatchingConfig{
		BrandFuzzyThreshold:   80,
		BrandWordRatio:        0.75,
		ClassFuzzyThreshold:   70,
		AlcoholExactTolerance: 0.5,
		AlcoholLooseTolerance: 2.0,
		VolumeRelTolerance:    0.02,
		WarningPhraseRatio:    0.6,
		MinWordConfidence:     70,
		WarningWordConfidence: 55,
		MergeThreshold:        10,
		WarningMergeThreshold: 20,
	}
}
