package ocr

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// prepareImage decodes the raw buffer, applies light preprocessing that helps
// tesseract on photographed receipts (grayscale, upscale small shots), and
// writes a temporary PNG for the engine to read. Call cleanup() to remove it.
func prepareImage(data []byte) (string, func(), error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, err
	}

	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < 800 {
		gray = imaging.Resize(gray, 0, 1200, imaging.Lanczos)
	}

	tmpDir, err := os.MkdirTemp("", "receipt-ocr-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	out := filepath.Join(tmpDir, "page.png")
	if err := imaging.Save(gray, out); err != nil {
		cleanup()
		return "", nil, err
	}
	return out, cleanup, nil
}
