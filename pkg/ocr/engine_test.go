package ocr

import (
	"image"
	"testing"

	"github.com/otiai10/gosseract/v2"
)

func bbox(word string, conf float64, block, par, line int, x0, y0, x1, y1 int) gosseract.BoundingBox {
	return gosseract.BoundingBox{
		Box:        image.Rect(x0, y0, x1, y1),
		Word:       word,
		Confidence: conf,
		BlockNum:   block,
		ParNum:     par,
		LineNum:    line,
	}
}

func TestBuildResultGroupsHierarchy(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		bbox("ORPHEUS", 92, 1, 1, 1, 10, 10, 120, 40),
		bbox("BREWING", 88, 1, 1, 1, 130, 10, 240, 40),
		bbox("GOLDEN", 85, 1, 1, 2, 10, 60, 110, 90),
		bbox("ALE", 90, 1, 1, 2, 120, 60, 170, 90),
		bbox("GOVERNMENT", 70, 2, 1, 1, 10, 400, 180, 420),
		bbox("WARNING", 72, 2, 1, 1, 190, 400, 300, 420),
	}
	res := buildResult("ORPHEUS BREWING\nGOLDEN ALE\n\nGOVERNMENT WARNING\n", boxes)

	if res.Text != "ORPHEUS BREWING\nGOLDEN ALE\n\nGOVERNMENT WARNING" {
		t.Fatalf("text not trimmed: %q", res.Text)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("expected 2 blocks got %d", len(res.Blocks))
	}
	lines := res.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines got %d", len(lines))
	}
	if got := lines[0].Text(); got != "ORPHEUS BREWING" {
		t.Fatalf("line 0 text %q", got)
	}
	if got := lines[1].Text(); got != "GOLDEN ALE" {
		t.Fatalf("line 1 text %q", got)
	}
	if got := lines[2].Text(); got != "GOVERNMENT WARNING" {
		t.Fatalf("line 2 text %q", got)
	}
	if got := lines[0].Box(); got != (Box{X0: 10, Y0: 10, X1: 240, Y1: 40}) {
		t.Fatalf("line 0 box union %+v", got)
	}
	words := res.Words()
	if len(words) != 6 {
		t.Fatalf("expected 6 words got %d", len(words))
	}
	want := (92.0 + 88 + 85 + 90 + 70 + 72) / 6
	if res.Confidence != want {
		t.Fatalf("result confidence %f want %f", res.Confidence, want)
	}
}

func TestBuildResultSkipsEmptyWords(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		bbox("  ", 90, 1, 1, 1, 0, 0, 10, 10),
		bbox("ALE", 90, 1, 1, 1, 20, 0, 60, 10),
	}
	res := buildResult("ALE", boxes)
	words := res.Words()
	if len(words) != 1 || words[0].Text != "ALE" {
		t.Fatalf("blank tokens must be dropped: %+v", words)
	}
}

func TestBuildResultLineNumbersResetAcrossBlocks(t *testing.T) {
	// Tesseract restarts line numbering per block; grouping must key on the
	// change, not the absolute value.
	boxes := []gosseract.BoundingBox{
		bbox("one", 90, 1, 1, 1, 0, 0, 30, 10),
		bbox("two", 90, 2, 1, 1, 0, 50, 30, 60),
	}
	res := buildResult("one\ntwo", boxes)
	if len(res.Lines()) != 2 {
		t.Fatalf("expected words in separate lines, got %d", len(res.Lines()))
	}
}

func TestFilterWords(t *testing.T) {
	words := []Word{
		{Text: "GOOD", Confidence: 85},
		{Text: "low", Confidence: 30},
		{Text: "   ", Confidence: 99},
	}
	kept := FilterWords(words, 60)
	if len(kept) != 1 || kept[0].Text != "GOOD" {
		t.Fatalf("unexpected kept words: %+v", kept)
	}
}
