package ocr

import "strings"

// Box is an axis-aligned rectangle in the pixel frame the OCR pass ran in.
type Box struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// Area returns the box area in square pixels.
func (b Box) Area() int {
	return (b.X1 - b.X0) * (b.Y1 - b.Y0)
}

// Word is one recognized token.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100
	Box        Box     `json:"box"`
}

// Line is a visual text line made of words.
type Line struct {
	Words []Word `json:"words"`
}

// Text joins the line's words with single spaces.
func (l Line) Text() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// Box returns the union of the line's word boxes.
func (l Line) Box() Box {
	if len(l.Words) == 0 {
		return Box{}
	}
	out := l.Words[0].Box
	for _, w := range l.Words[1:] {
		if w.Box.X0 < out.X0 {
			out.X0 = w.Box.X0
		}
		if w.Box.Y0 < out.Y0 {
			out.Y0 = w.Box.Y0
		}
		if w.Box.X1 > out.X1 {
			out.X1 = w.Box.X1
		}
		if w.Box.Y1 > out.Y1 {
			out.Y1 = w.Box.Y1
		}
	}
	return out
}

// Confidence averages the word confidences of the line.
func (l Line) Confidence() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range l.Words {
		sum += w.Confidence
	}
	return sum / float64(len(l.Words))
}

// Paragraph groups lines.
type Paragraph struct {
	Lines []Line `json:"lines"`
}

// Block is the top of the Tesseract layout hierarchy.
type Block struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Result is one OCR pass over one image frame.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100, mean over words
	Blocks     []Block `json:"blocks"`
}

// Lines flattens the block/paragraph hierarchy depth-first.
func (r *Result) Lines() []Line {
	var out []Line
	if r == nil {
		return out
	}
	for _, b := range r.Blocks {
		for _, p := range b.Paragraphs {
			out = append(out, p.Lines...)
		}
	}
	return out
}

// Words flattens the hierarchy down to individual words.
func (r *Result) Words() []Word {
	var out []Word
	for _, l := range r.Lines() {
		out = append(out, l.Words...)
	}
	return out
}

// FilterWords drops words whose confidence is below floor or whose text is empty.
func FilterWords(words []Word, floor float64) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		if w.Confidence < floor {
			continue
		}
		out = append(out, w)
	}
	return out
}

func meanConfidence(words []Word) float64 {
	if len(words) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range words {
		sum += w.Confidence
	}
	return sum / float64(len(words))
}
