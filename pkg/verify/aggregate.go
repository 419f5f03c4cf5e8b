package verify

import (
	"strings"

	"labelcheck/pkg/ocr"
)

// Overall verification statuses.
const (
	OverallPass = "pass"
	OverallFail = "fail"
)

// Verify runs every field matcher against the merged OCR output and combines
// the records. The overall status is pass exactly when brand, product class
// and alcohol content all match; net contents and the warning never gate it.
func Verify(claims Claims, merged *ocr.MergedResult, cfg MatchingConfig) Result {
	fields := []FieldVerification{
		MatchBrandName(claims.BrandName, merged, cfg),
		MatchProductClass(claims.ProductClass, merged, cfg),
		MatchAlcoholContent(claims.AlcoholContent, merged, cfg),
	}
	if strings.TrimSpace(claims.NetContents) != "" {
		fields = append(fields, MatchNetContents(claims.NetContents, merged, cfg))
	}
	fields = append(fields, MatchWarning(merged, cfg))

	overall := OverallPass
	for _, f := range fields {
		if requiredFields[f.Field] && f.Status != StatusMatch {
			overall = OverallFail
			break
		}
	}
	return Result{
		OverallStatus: overall,
		Fields:        fields,
		RawText:       merged.Text,
	}
}
