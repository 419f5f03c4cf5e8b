package verify

import (
	"sort"
	"strings"

	"labelcheck/pkg/ocr"
)

// BBoxOptions tune a single bounding-box search.
type BBoxOptions struct {
	// MinConfidence is the word-confidence floor for exact-word hits. Zero
	// means 70.
	MinConfidence float64
	// MaxResults caps the returned boxes. Zero means unlimited.
	MaxResults int
	// PreferLarger ranks bigger boxes first, so headline text beats body copy.
	PreferLarger bool
	// PreferTop ranks higher-positioned boxes first.
	PreferTop bool
	// MergeThreshold is the pixel limit for combining boxes on the same visual
	// line. Zero means 10.
	MergeThreshold int
}

func (o BBoxOptions) withDefaults() BBoxOptions {
	if o.MinConfidence == 0 {
		o.MinConfidence = 70
	}
	if o.MergeThreshold == 0 {
		o.MergeThreshold = 10
	}
	return o
}

// Strategy scores, in descending reliability.
const (
	scoreExactLine   = 100
	scoreLineContain = 90
	scoreExactWord   = 80
	scoreWordContain = 60
)

type boxCandidate struct {
	box        BBox
	score      float64
	confidence float64
}

// FindBBoxes locates pattern in one OCR pass. The returned boxes are in that
// pass's own pixel frame; callers dealing with rotated passes should use
// FindBBoxesForAngle or FindBBoxesAcrossRotations instead.
func FindBBoxes(pattern string, res *ocr.Result, opts BBoxOptions) []BBox {
	opts = opts.withDefaults()
	return finalizeCandidates(collectCandidates(pattern, res, opts), opts)
}

// FindBBoxesForAngle searches the raw result of a single rotation attempt and
// transforms every hit back into the un-rotated image frame (width x height).
func FindBBoxesForAngle(pattern string, res *ocr.Result, angle, width, height int, opts BBoxOptions) []BBox {
	opts = opts.withDefaults()
	cands := collectCandidates(pattern, res, opts)
	for i := range cands {
		cands[i].box = TransformBox(cands[i].box, angle, width, height)
	}
	return finalizeCandidates(cands, opts)
}

// FindBBoxesAcrossRotations searches every rotation attempt, transforms each
// hit into the original frame, then ranks, merges and deduplicates across all
// of them. Used for fields whose text may only be legible sideways.
func FindBBoxesAcrossRotations(pattern string, byAngle map[int]*ocr.Result, width, height int, opts BBoxOptions) []BBox {
	opts = opts.withDefaults()
	angles := make([]int, 0, len(byAngle))
	for angle := range byAngle {
		angles = append(angles, angle)
	}
	sort.Ints(angles)
	var cands []boxCandidate
	for _, angle := range angles {
		found := collectCandidates(pattern, byAngle[angle], opts)
		for _, c := range found {
			c.box = TransformBox(c.box, angle, width, height)
			cands = append(cands, c)
		}
	}
	return finalizeCandidates(cands, opts)
}

// collectCandidates runs the matching strategies against every line of the
// result. A line that matches whole (exactly or by containment) contributes
// one candidate and its words are not re-matched individually.
func collectCandidates(pattern string, res *ocr.Result, opts BBoxOptions) []boxCandidate {
	norm := normalizeText(pattern)
	if norm == "" || res == nil {
		return nil
	}
	searchTokens := strings.Fields(norm)
	multiWord := len(searchTokens) > 1

	var cands []boxCandidate
	for _, line := range res.Lines() {
		lineNorm := normalizeText(line.Text())
		if lineNorm == "" {
			continue
		}
		if lineNorm == norm {
			cands = append(cands, boxCandidate{
				box:        fromOCRBox(line.Box()),
				score:      scoreExactLine,
				confidence: line.Confidence(),
			})
			continue
		}
		if multiWord && strings.Contains(lineNorm, norm) {
			cands = append(cands, boxCandidate{
				box:        fromOCRBox(line.Box()),
				score:      scoreLineContain,
				confidence: line.Confidence(),
			})
			continue
		}
		for _, w := range line.Words {
			wordNorm := normalizeText(w.Text)
			// 1-2 character tokens match everything and mean nothing
			if len(wordNorm) <= 2 {
				continue
			}
			for _, tok := range searchTokens {
				if wordNorm == tok {
					if w.Confidence >= opts.MinConfidence {
						cands = append(cands, boxCandidate{
							box:        fromOCRBox(w.Box),
							score:      scoreExactWord,
							confidence: w.Confidence,
						})
					}
					break
				}
				if len(tok) >= 5 && strings.Contains(wordNorm, tok) {
					cands = append(cands, boxCandidate{
						box:        fromOCRBox(w.Box),
						score:      scoreWordContain,
						confidence: w.Confidence,
					})
					break
				}
			}
		}
	}
	return cands
}

// finalizeCandidates merges same-line fragments, deduplicates, ranks, and
// caps the result list.
func finalizeCandidates(cands []boxCandidate, opts BBoxOptions) []BBox {
	cands = mergeCandidates(cands, opts.MergeThreshold)
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].confidence != cands[j].confidence {
			return cands[i].confidence > cands[j].confidence
		}
		if opts.PreferLarger && cands[i].box.Area() != cands[j].box.Area() {
			return cands[i].box.Area() > cands[j].box.Area()
		}
		if opts.PreferTop && cands[i].box.Y0 != cands[j].box.Y0 {
			return cands[i].box.Y0 < cands[j].box.Y0
		}
		return false
	})
	out := make([]BBox, 0, len(cands))
	seen := map[BBox]struct{}{}
	for _, c := range cands {
		if _, ok := seen[c.box]; ok {
			continue
		}
		seen[c.box] = struct{}{}
		out = append(out, c.box)
		if opts.MaxResults > 0 && len(out) >= opts.MaxResults {
			break
		}
	}
	return out
}

// mergeCandidates combines candidates that sit on the same visual line (top
// difference within threshold) and are horizontally adjacent (gap within
// threshold). Multi-word phrase fragments become one highlight box; the
// merged candidate keeps the strongest score and confidence.
func mergeCandidates(cands []boxCandidate, threshold int) []boxCandidate {
	if len(cands) <= 1 {
		return cands
	}
	sorted := make([]boxCandidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].box.Y0 != sorted[j].box.Y0 {
			return sorted[i].box.Y0 < sorted[j].box.Y0
		}
		return sorted[i].box.X0 < sorted[j].box.X0
	})
	var out []boxCandidate
	cur := sorted[0]
	for _, next := range sorted[1:] {
		if sameLine(cur.box, next.box, threshold) && adjacent(cur.box, next.box, threshold) {
			cur.box = unionBox(cur.box, next.box)
			if next.score > cur.score {
				cur.score = next.score
			}
			if next.confidence > cur.confidence {
				cur.confidence = next.confidence
			}
			continue
		}
		out = append(out, cur)
		cur = next
	}
	out = append(out, cur)
	return out
}

func sameLine(a, b BBox, threshold int) bool {
	d := a.Y0 - b.Y0
	if d < 0 {
		d = -d
	}
	return d <= threshold
}

func adjacent(a, b BBox, threshold int) bool {
	if b.X0 > a.X1 {
		return b.X0-a.X1 <= threshold
	}
	if a.X0 > b.X1 {
		return a.X0-b.X1 <= threshold
	}
	return true // overlapping horizontally
}

func unionBox(a, b BBox) BBox {
	if b.X0 < a.X0 {
		a.X0 = b.X0
	}
	if b.Y0 < a.Y0 {
		a.Y0 = b.Y0
	}
	if b.X1 > a.X1 {
		a.X1 = b.X1
	}
	if b.Y1 > a.Y1 {
		a.Y1 = b.Y1
	}
	return a
}

func fromOCRBox(b ocr.Box) BBox {
	return BBox{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1}
}

// TransformBox maps a box found after rotating the source image degrees
// counter-clockwise (canvas auto-expanded) back into the un-rotated frame of
// size width x height. This is exact algebra for axis-aligned canvas
// rotation:
//
//	90:  (W-y1, x0, W-y0, x1)
//	180: (W-x1, H-y1, W-x0, H-y0)
//	270: (y0, H-x1, y1, H-x0)
func TransformBox(b BBox, degrees, width, height int) BBox {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return BBox{X0: width - b.Y1, Y0: b.X0, X1: width - b.Y0, Y1: b.X1}
	case 180:
		return BBox{X0: width - b.X1, Y0: height - b.Y1, X1: width - b.X0, Y1: height - b.Y0}
	case 270:
		return BBox{X0: b.Y0, Y0: height - b.X1, X1: b.Y1, Y1: height - b.X0}
	default:
		return b
	}
}
