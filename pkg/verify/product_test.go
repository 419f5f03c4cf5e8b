package verify

import "testing"

func TestMatchProductClassExact(t *testing.T) {
	merged := mergedFromLines("ORPHEUS BREWING", "GOLDEN ALE")
	fv := MatchProductClass("Golden Ale", merged, DefaultConfig())
	if fv.Status != StatusMatch || fv.Confidence != 100 {
		t.Fatalf("status %s confidence %f: %s", fv.Status, fv.Confidence, fv.Message)
	}
}

func TestMatchProductClassAbbreviation(t *testing.T) {
	// label carries a fragment of the full claimed class
	merged := mergedFromLines("OLD TOM", "BOURBON")
	fv := MatchProductClass("Kentucky Straight Bourbon Whiskey", merged, DefaultConfig())
	if fv.Status != StatusMatch {
		t.Fatalf("abbreviated class should match: %s", fv.Message)
	}
	if fv.Confidence != 95 {
		t.Fatalf("confidence %f want 95", fv.Confidence)
	}
}

func TestMatchProductClassVariation(t *testing.T) {
	merged := mergedFromLines("INDIA PALE ALE")
	fv := MatchProductClass("IPA", merged, DefaultConfig())
	if fv.Status != StatusMatch {
		t.Fatalf("variation should match: %s", fv.Message)
	}
	if fv.Confidence != 90 {
		t.Fatalf("confidence %f want 90", fv.Confidence)
	}
	if fv.Found != "india pale ale" {
		t.Fatalf("found %q", fv.Found)
	}
}

func TestMatchProductClassFuzzy(t *testing.T) {
	merged := mergedFromLines("PILSENER")
	fv := MatchProductClass("Pilsner", merged, DefaultConfig())
	if fv.Status != StatusMatch {
		t.Fatalf("one OCR insertion should still match: %s", fv.Message)
	}
	if fv.Confidence != 88 {
		t.Fatalf("confidence %f want 88", fv.Confidence)
	}
}

func TestMatchProductClassNotFound(t *testing.T) {
	merged := mergedFromLines("GOLDEN ALE", "750 ml")
	fv := MatchProductClass("Vodka", merged, DefaultConfig())
	if fv.Status != StatusNotFound {
		t.Fatalf("status %s: %s", fv.Status, fv.Message)
	}
}
