package verify

import (
	"strings"
	"testing"

	"labelcheck/pkg/ocr"
)

const fullWarning = "GOVERNMENT WARNING: (1) According to the Surgeon General, " +
	"pregnant women should not drink alcoholic beverages due to the risk of " +
	"birth defects. (2) Consumption of alcoholic beverages impairs your ability " +
	"to drive a car or operate machinery, and may cause health problems."

func TestMatchWarningComplete(t *testing.T) {
	merged := mergedFromLines("GOLDEN ALE", fullWarning)
	fv := MatchWarning(merged, DefaultConfig())
	if fv.Status != StatusMatch {
		t.Fatalf("complete warning must match: %s", fv.Message)
	}
	if fv.Confidence != 100 {
		t.Fatalf("confidence %f want 100", fv.Confidence)
	}
	if !strings.Contains(fv.Message, "6/6 phrases") {
		t.Fatalf("message %q", fv.Message)
	}
}

func TestMatchWarningPartial(t *testing.T) {
	merged := mergedFromLines("GOVERNMENT WARNING", "pregnant women")
	fv := MatchWarning(merged, DefaultConfig())
	if fv.Status != StatusMismatch {
		t.Fatalf("2 of 6 phrases must be a mismatch: %s", fv.Message)
	}
	if fv.Confidence != 33 {
		t.Fatalf("confidence %f want 33", fv.Confidence)
	}
	if !strings.Contains(fv.Message, "2/6 phrases") || !strings.Contains(fv.Message, "33%") {
		t.Fatalf("message %q", fv.Message)
	}
	if !strings.Contains(fv.Message, "missing:") {
		t.Fatalf("message should list missing phrases: %q", fv.Message)
	}
}

func TestMatchWarningNotFound(t *testing.T) {
	merged := mergedFromLines("GOLDEN ALE", "750 ml")
	fv := MatchWarning(merged, DefaultConfig())
	if fv.Status != StatusNotFound {
		t.Fatalf("status %s: %s", fv.Status, fv.Message)
	}
	if len(fv.BBoxes) != 0 {
		t.Fatalf("not-found must not carry boxes: %+v", fv.BBoxes)
	}
}

func TestMatchWarningDroppedWordCredit(t *testing.T) {
	// OCR lost "GOVERNMENT" but half of each multi-word phrase is enough
	merged := mergedFromLines("WARNING: Surgeon General pregnant birth defects impairs health problems")
	fv := MatchWarning(merged, DefaultConfig())
	if fv.Status != StatusMatch {
		t.Fatalf("half-phrase credit should carry: %s", fv.Message)
	}
	if fv.Confidence != 100 {
		t.Fatalf("confidence %f want 100", fv.Confidence)
	}
}

func TestMatchWarningBoxesFromSidewaysText(t *testing.T) {
	// warning printed vertically: legible only in the 90-degree attempt
	res0 := resultFromLines(90, "GOLDEN ALE")
	res90 := resultFromLines(90, "GOVERNMENT WARNING")
	merged := &ocr.MergedResult{
		Text:         res0.Text + "\n\n" + res90.Text,
		Words:        append(res0.Words(), res90.Words()...),
		PrimaryAngle: 0,
		ByAngle:      map[int]*ocr.Result{0: res0, 90: res90},
		ImageWidth:   800,
		ImageHeight:  1000,
	}
	fv := MatchWarning(merged, DefaultConfig())
	if len(fv.BBoxes) != 1 {
		t.Fatalf("expected one box got %d", len(fv.BBoxes))
	}
	want := BBox{X0: 750, Y0: 10, X1: 780, Y1: 324}
	if fv.BBoxes[0] != want {
		t.Fatalf("box %+v want %+v, not transformed back to the source frame", fv.BBoxes[0], want)
	}
}
