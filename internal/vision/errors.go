package vision

import "fmt"

// UpstreamError reports a failed vision-model attempt: network failure,
// non-success status, malformed reply, or a reply missing required fields.
// The orchestrator recovers it by falling back to local OCR; it never reaches
// the end caller unless the fallback fails too.
type UpstreamError struct {
	Stage string
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("vision model: %s: %v", e.Stage, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func upstreamErr(stage string, cause error) *UpstreamError {
	return &UpstreamError{Stage: stage, Cause: cause}
}
