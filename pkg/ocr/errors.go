package ocr

import "errors"

// ErrEngineUnavailable is returned when the Tesseract engine cannot be created or reached.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// ErrTimeout is returned when recognition exceeds the caller's deadline.
var ErrTimeout = errors.New("ocr timed out")
