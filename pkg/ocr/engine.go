package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Engine wraps a single Tesseract client. The client keeps per-recognition
// state internally, so calls are serialized on a mutex: one recognition at a
// time per engine.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine creates a Tesseract-backed engine configured for label text.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: set language: %v", ErrEngineUnavailable, err)
	}
	return &Engine{client: client}, nil
}

// Close releases the underlying Tesseract resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Recognize runs one OCR pass over imageBytes and returns the hierarchical
// result. When ctx expires the call returns ErrTimeout; the in-flight
// Tesseract work is abandoned, not cancelled, and the engine stays busy until
// it finishes on its own.
func (e *Engine) Recognize(ctx context.Context, imageBytes []byte) (*Result, error) {
	type outcome struct {
		res *Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := e.recognize(imageBytes)
		ch <- outcome{res: res, err: err}
	}()
	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	}
}

func (e *Engine) recognize(imageBytes []byte) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, ErrEngineUnavailable
	}
	if err := e.client.SetImageFromBytes(imageBytes); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return nil, fmt.Errorf("%w: text: %v", ErrEngineUnavailable, err)
	}
	boxes, err := e.client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("%w: bounding boxes: %v", ErrEngineUnavailable, err)
	}
	res := buildResult(text, boxes)
	return res, nil
}

// buildResult regroups Tesseract's flat verbose box list into the typed
// block/paragraph/line hierarchy. Boxes arrive in reading order with
// monotonically changing block/paragraph/line numbers.
func buildResult(text string, boxes []gosseract.BoundingBox) *Result {
	res := &Result{Text: strings.TrimSpace(text)}
	var (
		curBlock, curPar, curLine = -1, -1, -1
		words                     []Word
	)
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		if b.BlockNum != curBlock {
			res.Blocks = append(res.Blocks, Block{})
			curBlock = b.BlockNum
			curPar, curLine = -1, -1
		}
		blk := &res.Blocks[len(res.Blocks)-1]
		if b.ParNum != curPar {
			blk.Paragraphs = append(blk.Paragraphs, Paragraph{})
			curPar = b.ParNum
			curLine = -1
		}
		par := &blk.Paragraphs[len(blk.Paragraphs)-1]
		if b.LineNum != curLine {
			par.Lines = append(par.Lines, Line{})
			curLine = b.LineNum
		}
		line := &par.Lines[len(par.Lines)-1]
		w := Word{
			Text:       word,
			Confidence: b.Confidence,
			Box: Box{
				X0: b.Box.Min.X,
				Y0: b.Box.Min.Y,
				X1: b.Box.Max.X,
				Y1: b.Box.Max.Y,
			},
		}
		line.Words = append(line.Words, w)
		words = append(words, w)
	}
	res.Confidence = meanConfidence(words)
	return res
}
