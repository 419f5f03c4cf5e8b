// Package verify implements the label-verification matching engine: per-field
// match decisions over merged multi-rotation OCR output, plus bounding-box
// resolution back into the original image frame.
package verify

// Status of a single field check. Matching failures are values, never errors,
// so a partial label still produces a complete, inspectable result.
type Status string

const (
	StatusMatch    Status = "match"
	StatusMismatch Status = "mismatch"
	StatusNotFound Status = "not_found"
)

// Field identifies one verified label attribute.
type Field string

const (
	FieldBrandName      Field = "brand_name"
	FieldProductClass   Field = "product_class"
	FieldAlcoholContent Field = "alcohol_content"
	FieldNetContents    Field = "net_contents"
	FieldWarning        Field = "government_warning"
)

// requiredFields gate the overall pass/fail status; the rest are advisory.
var requiredFields = map[Field]bool{
	FieldBrandName:      true,
	FieldProductClass:   true,
	FieldAlcoholContent: true,
}

// BBox is an axis-aligned rectangle in original-image pixel coordinates,
// ready for overlay rendering.
type BBox struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Area returns the box area in square pixels.
func (b BBox) Area() int {
	return (b.X1 - b.X0) * (b.Y1 - b.Y0)
}

// FieldVerification is the outcome of one field check.
type FieldVerification struct {
	Field      Field   `json:"field"`
	Status     Status  `json:"status"`
	Expected   string  `json:"expected"`
	Found      string  `json:"found,omitempty"`
	Confidence float64 `json:"confidence"` // 0-100
	Message    string  `json:"message"`
	BBoxes     []BBox  `json:"bboxes,omitempty"`
}

// Result combines all field checks for one label image.
type Result struct {
	OverallStatus string              `json:"overall_status"` // "pass" | "fail"
	Fields        []FieldVerification `json:"fields"`
	RawText       string              `json:"raw_text"`
}

// Claims are the attributes a label is expected to carry. NetContents is
// optional; the mandatory warning is always checked.
type Claims struct {
	BrandName      string `json:"brand_name" binding:"required"`
	ProductClass   string `json:"product_class" binding:"required"`
	AlcoholContent string `json:"alcohol_content" binding:"required"`
	NetContents    string `json:"net_contents"`
}
