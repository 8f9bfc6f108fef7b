// Package convert invokes an external document converter (pandoc) to
// turn generated markdown files into DOCX. Conversion is best-effort:
// a missing or failing converter degrades the run to markdown-only
// output and must never abort the remaining conversions.
package convert

import (
	"context"
	"os/exec"

	"github.com/FocuswithJustin/pullquote/core/errors"
)

// DefaultBinary is the converter looked up on PATH when none is configured.
const DefaultBinary = "pandoc"

// Injectable functions for testing.
var (
	execLookPath = exec.LookPath
	execCommand  = exec.CommandContext
)

// Converter runs an external markdown-to-document conversion tool.
type Converter struct {
	// Binary is the converter executable name or path.
	Binary string
}

// New returns a Converter using the default binary.
func New() *Converter {
	return &Converter{Binary: DefaultBinary}
}

// Available reports whether the converter binary can be found on PATH.
func (c *Converter) Available() bool {
	_, err := execLookPath(c.binary())
	return err == nil
}

// Convert runs the converter on inputPath, writing outputPath. The
// returned error is always a *errors.ConversionError; callers report it
// and continue with the remaining outputs.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string) error {
	if _, err := execLookPath(c.binary()); err != nil {
		return errors.NewConversion(c.binary(), inputPath, outputPath, err)
	}

	cmd := execCommand(ctx, c.binary(), inputPath, "-o", outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		convErr := errors.NewConversion(c.binary(), inputPath, outputPath, err)
		if len(out) > 0 {
			convErr.Err = errors.Wrap(err, string(out))
		}
		return convErr
	}
	return nil
}

func (c *Converter) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return DefaultBinary
}
