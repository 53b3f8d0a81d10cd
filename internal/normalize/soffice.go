package normalize

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SofficeConverter converts word-processor documents to PDF by shelling out
// to LibreOffice in headless mode.
type SofficeConverter struct {
	path    string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewSofficeConverter creates a converter that invokes the soffice binary at
// path with the given per-invocation timeout.
func NewSofficeConverter(path string, timeout time.Duration, logger zerolog.Logger) *SofficeConverter {
	if path == "" {
		path = "soffice"
	}
	return &SofficeConverter{path: path, timeout: timeout, logger: logger}
}

// ConvertToPDF converts src into outDir and returns the produced PDF path.
func (c *SofficeConverter) ConvertToPDF(ctx context.Context, src, outDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path,
		"--headless",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outDir,
		src,
	)

	c.logger.Debug().Str("src", src).Str("outdir", outDir).Msg("Running soffice conversion")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("soffice failed: %w, output: %s", err, string(output))
	}

	// soffice names the output after the input file stem.
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dst := filepath.Join(outDir, stem+".pdf")
	if _, err := os.Stat(dst); err != nil {
		return "", fmt.Errorf("soffice produced no output at %s: %w", dst, err)
	}

	return dst, nil
}
