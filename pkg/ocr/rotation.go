package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Recognizer is the external OCR capability consumed by the rotation
// pipeline. Engine implements it; tests substitute fakes.
type Recognizer interface {
	Recognize(ctx context.Context, imageBytes []byte) (*Result, error)
}

// Attempt is one OCR pass at a specific rotation. Attempts live only for the
// duration of a single verification request.
type Attempt struct {
	Angle      int
	Text       string
	Words      []Word
	Confidence float64 // mean over kept words, 0-100
	WordCount  int
	Result     *Result
}

// DefaultAngles is the full candidate rotation set.
var DefaultAngles = []int{0, 90, 180, 270}

// ReducedAngles bounds latency on resource-constrained hosts.
var ReducedAngles = []int{0, 90}

// Options control the rotation pipeline.
type Options struct {
	// Angles to attempt, in order. Nil means DefaultAngles.
	Angles []int
	// MinWordConfidence drops low-confidence words per attempt. Zero means 60.
	MinWordConfidence float64
	// Score ranks attempts to pick the primary orientation. Zero value means
	// DefaultScorePolicy.
	Score ScorePolicy
}

func (o Options) withDefaults() Options {
	if len(o.Angles) == 0 {
		o.Angles = DefaultAngles
	}
	if o.MinWordConfidence == 0 {
		o.MinWordConfidence = 60
	}
	if o.Score == (ScorePolicy{}) {
		o.Score = DefaultScorePolicy()
	}
	return o
}

// MergedResult consolidates all rotation attempts for one image.
type MergedResult struct {
	// Text concatenates every attempt's non-empty text, blank-line separated.
	// Text legible only at a non-primary angle (a sideways warning) is still
	// searchable this way.
	Text string `json:"text"`
	// Words concatenates every attempt's confidence-filtered words.
	Words             []Word  `json:"words"`
	AverageConfidence float64 `json:"average_confidence"`
	// PrimaryAngle is the highest-scoring attempt's rotation.
	PrimaryAngle int `json:"primary_angle"`
	// ByAngle keeps each attempt's raw hierarchical result for bbox lookups.
	ByAngle map[int]*Result `json:"-"`
	// ImageWidth/ImageHeight describe the un-rotated source image; every
	// rotated box is transformed back against these.
	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
}

// Primary returns the raw result of the primary orientation.
func (m *MergedResult) Primary() *Result {
	if m == nil {
		return nil
	}
	return m.ByAngle[m.PrimaryAngle]
}

// ProcessWithRotations runs the external OCR capability once per candidate
// angle, picks the best-scoring orientation as primary, and merges all
// attempts into one result. An image with no recognizable text at any angle
// is not an error: the merged result simply has empty text and confidence 0.
func ProcessWithRotations(ctx context.Context, rec Recognizer, imageBytes []byte, opts Options) (*MergedResult, error) {
	opts = opts.withDefaults()
	width, height, err := Dimensions(imageBytes)
	if err != nil {
		return nil, err
	}

	attempts := make([]Attempt, 0, len(opts.Angles))
	byAngle := make(map[int]*Result, len(opts.Angles))
	for _, angle := range opts.Angles {
		rotated, err := Rotate(imageBytes, angle)
		if err != nil {
			return nil, fmt.Errorf("rotate %d: %w", angle, err)
		}
		res, err := rec.Recognize(ctx, rotated)
		if err != nil {
			return nil, fmt.Errorf("recognize at %d: %w", angle, err)
		}
		words := FilterWords(res.Words(), opts.MinWordConfidence)
		att := Attempt{
			Angle:      angle,
			Text:       strings.TrimSpace(res.Text),
			Words:      words,
			Confidence: meanConfidence(words),
			WordCount:  len(words),
			Result:     res,
		}
		attempts = append(attempts, att)
		byAngle[angle] = res
		logrus.WithFields(logrus.Fields{
			"angle":      angle,
			"words":      att.WordCount,
			"confidence": att.Confidence,
			"text":       snippet(att.Text, 80),
		}).Debug("ocr rotation attempt")
	}

	merged := &MergedResult{
		ByAngle:      byAngle,
		ImageWidth:   width,
		ImageHeight:  height,
		PrimaryAngle: opts.Angles[0],
	}

	scores := make([]float64, len(attempts))
	for i, att := range attempts {
		scores[i] = opts.Score.Score(att)
	}
	bestIdx := 0
	for i := 1; i < len(attempts); i++ {
		// ties go to the higher average confidence
		if scores[i] > scores[bestIdx] ||
			(scores[i] == scores[bestIdx] && attempts[i].Confidence > attempts[bestIdx].Confidence) {
			bestIdx = i
		}
	}
	merged.PrimaryAngle = attempts[bestIdx].Angle

	var texts []string
	var confSum float64
	for _, att := range attempts {
		if att.Text != "" {
			texts = append(texts, att.Text)
		}
		merged.Words = append(merged.Words, att.Words...)
		confSum += att.Confidence
	}
	merged.Text = strings.Join(texts, "\n\n")
	if len(attempts) > 0 {
		merged.AverageConfidence = confSum / float64(len(attempts))
	}
	logrus.WithFields(logrus.Fields{
		"primary_angle": merged.PrimaryAngle,
		"words":         len(merged.Words),
		"confidence":    merged.AverageConfidence,
	}).Debug("ocr rotations merged")
	return merged, nil
}
