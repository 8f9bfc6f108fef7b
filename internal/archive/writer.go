package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// Compression selects the bundle compression algorithm.
type Compression string

const (
	// CompressionXZ uses XZ/LZMA2 compression (default, best ratio).
	CompressionXZ Compression = "xz"
	// CompressionGzip uses gzip compression (stdlib, faster).
	CompressionGzip Compression = "gzip"
)

// Ext returns the archive filename extension for the compression.
func (c Compression) Ext() string {
	if c == CompressionGzip {
		return ".tar.gz"
	}
	return ".tar.xz"
}

// CreateBundle archives every regular file in srcDir into dstPath using
// the given compression. The baseDir parameter is the directory name the
// entries carry inside the archive. Timestamps are normalized so two
// bundles of the same content differ only in compression framing.
func CreateBundle(srcDir, dstPath, baseDir string, compression Compression) error {
	outFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	var compressor io.WriteCloser
	switch compression {
	case CompressionGzip:
		compressor = gzip.NewWriter(outFile)
	case CompressionXZ, "":
		xw, err := xz.NewWriter(outFile)
		if err != nil {
			return fmt.Errorf("xz writer: %w", err)
		}
		compressor = xw
	default:
		return fmt.Errorf("unsupported compression: %s", compression)
	}

	tw := tar.NewWriter(compressor)

	now := time.Now()
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = baseDir + "/" + filepath.ToSlash(relPath)
		if info.IsDir() {
			header.Name += "/"
		}
		header.ModTime = now

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if !info.IsDir() {
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if _, err := io.Copy(tw, file); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}
	return nil
}

// BundleOutputs archives a directory of generated outputs, deriving the
// interior base directory name from the destination filename.
func BundleOutputs(srcDir, dstPath string, compression Compression) error {
	base := filepath.Base(dstPath)
	base = strings.TrimSuffix(strings.TrimSuffix(base, ".tar.xz"), ".tar.gz")
	return CreateBundle(srcDir, dstPath, base, compression)
}
