package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

// ScorePolicy carries the orientation-scoring weights. The defaults were
// tuned against real label photos; callers may override them per request
// rather than treating them as fixed law.
type ScorePolicy struct {
	ValidWeight    float64 // reward per unit of valid-token ratio
	NoiseWeight    float64 // penalty per unit of noise-token ratio
	Bonus          float64 // added when validRatio and confidence are both high
	BonusRatio     float64 // validRatio floor for the bonus
	BonusMinConf   float64 // avg word confidence floor for the bonus
	Penalty        float64 // subtracted when confidence is very low
	PenaltyMaxConf float64 // avg word confidence ceiling for the penalty
	ClampMin       float64
	ClampMax       float64
}

// DefaultScorePolicy returns the tuned weights.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		ValidWeight:    10,
		NoiseWeight:    5,
		Bonus:          5,
		BonusRatio:     0.7,
		BonusMinConf:   60,
		Penalty:        10,
		PenaltyMaxConf: 30,
		ClampMin:       -10,
		ClampMax:       20,
	}
}

// Score ranks one rotation attempt. Raw word count alone rewards garbage
// (noisy rotations produce many short junk tokens), so the base
// count*confidence term is blended with a pattern term that rewards
// recognizable words, numbers, percentages and volume tokens and punishes
// noise runs.
func (p ScorePolicy) Score(a Attempt) float64 {
	base := float64(a.WordCount) * (a.Confidence / 100)
	return base + p.patternScore(a.Text, a.Confidence)
}

func (p ScorePolicy) patternScore(text string, avgConf float64) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return p.ClampMin
	}
	valid, noise := 0, 0
	for _, tok := range tokens {
		switch classifyToken(tok) {
		case tokenNoise:
			noise++
		default:
			valid++
		}
	}
	validRatio := float64(valid) / float64(len(tokens))
	noiseRatio := float64(noise) / float64(len(tokens))
	score := validRatio*p.ValidWeight - noiseRatio*p.NoiseWeight
	if validRatio > p.BonusRatio && avgConf > p.BonusMinConf {
		score += p.Bonus
	}
	if avgConf < p.PenaltyMaxConf {
		score -= p.Penalty
	}
	if score < p.ClampMin {
		score = p.ClampMin
	}
	if score > p.ClampMax {
		score = p.ClampMax
	}
	return score
}

type tokenKind int

const (
	tokenNoise tokenKind = iota
	tokenAlpha
	tokenAlnum
	tokenNumeric
	tokenPercent
	tokenVolume
)

var (
	percentTokenRE = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]+)?%$`)
	volumeTokenRE  = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]+)?(?:ml|cl|l|oz|floz)\.?$`)
	numericTokenRE = regexp.MustCompile(`^[0-9]+(?:[.,][0-9]+)?$`)
)

// classifyToken buckets a whitespace-delimited token. Short letter runs and
// tokens without any alphanumeric content count as noise.
func classifyToken(tok string) tokenKind {
	tok = strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%' && r != '.'
	})
	low := strings.ToLower(tok)
	if percentTokenRE.MatchString(low) {
		return tokenPercent
	}
	if volumeTokenRE.MatchString(low) {
		return tokenVolume
	}
	if numericTokenRE.MatchString(low) {
		return tokenNumeric
	}
	letters, digits, other := 0, 0, 0
	for _, r := range low {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		default:
			other++
		}
	}
	if letters+digits == 0 {
		return tokenNoise
	}
	if digits > 0 && letters > 0 {
		return tokenAlnum
	}
	if letters > 0 {
		// 1-2 character consonant/vowel runs are OCR noise, not words
		if letters <= 2 {
			return tokenNoise
		}
		return tokenAlpha
	}
	return tokenNoise
}
