package verify

import (
	"strings"

	"labelcheck/pkg/ocr"
)

// resultFromLines builds a one-block OCR result with a box per token. Token
// boxes are 30px tall, 18px per character, 8px apart, one line per 50px.
func resultFromLines(conf float64, lines ...string) *ocr.Result {
	par := ocr.Paragraph{}
	y := 20
	for _, l := range lines {
		line := ocr.Line{}
		x := 10
		for _, tok := range strings.Fields(l) {
			w := 18 * len(tok)
			line.Words = append(line.Words, ocr.Word{
				Text:       tok,
				Confidence: conf,
				Box:        ocr.Box{X0: x, Y0: y, X1: x + w, Y1: y + 30},
			})
			x += w + 8
		}
		par.Lines = append(par.Lines, line)
		y += 50
	}
	return &ocr.Result{
		Text:       strings.Join(lines, "\n"),
		Confidence: conf,
		Blocks:     []ocr.Block{{Paragraphs: []ocr.Paragraph{par}}},
	}
}

// mergedFromLines wraps resultFromLines as a single upright rotation attempt.
func mergedFromLines(lines ...string) *ocr.MergedResult {
	res := resultFromLines(90, lines...)
	return &ocr.MergedResult{
		Text:              res.Text,
		Words:             res.Words(),
		AverageConfidence: res.Confidence,
		PrimaryAngle:      0,
		ByAngle:           map[int]*ocr.Result{0: res},
		ImageWidth:        800,
		ImageHeight:       1000,
	}
}
