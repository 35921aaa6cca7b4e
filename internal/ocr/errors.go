package ocr

import "fmt"

// EngineError reports a local OCR engine failure (unreadable image, engine
// crash). It is terminal for the whole pipeline: there is no further tier to
// fall back to.
type EngineError struct {
	Stage string
	Cause error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("ocr engine: %s: %v", e.Stage, e.Cause)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

func engineErr(stage string, cause error) *EngineError {
	return &EngineError{Stage: stage, Cause: cause}
}
