// File: pkg/scanner/binary.go
package scanner

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// isBinaryFile checks if a file is likely to be binary by reading its first
// few bytes and checking for null bytes, invalid UTF-8, or a high ratio of
// non-printable characters.
func isBinaryFile(filePath string) (bool, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	window := make([]byte, 512)
	n, err := file.Read(window)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	buffer := window[:n]

	// Empty files are considered text.
	if len(buffer) == 0 {
		return false, nil
	}

	if bytes.Contains(buffer, []byte{0}) {
		return true, nil
	}

	// The sniff window may cut a multi-byte rune; only reject invalid UTF-8
	// when the whole file fit inside it.
	if !utf8.Valid(buffer) && n < len(window) {
		return true, nil
	}

	nonPrintable := 0
	for _, b := range buffer {
		if !isPrintable(b) {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(buffer)) > 0.3, nil
}

// isPrintable checks if a byte represents a printable character. Bytes above
// 0x7f are part of multi-byte UTF-8 sequences and count as printable.
func isPrintable(b byte) bool {
	return (b >= 32 && b <= 126) || b >= 128 || b == '\n' || b == '\r' || b == '\t'
}

// isCommonBinaryExtension checks if the file has a known binary extension.
func isCommonBinaryExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return binaryExtensions[ext]
}

// binaryExtensions lists extensions that are always treated as binary,
// skipping the content sniff.
var binaryExtensions = map[string]bool{
	".7z":     true,
	".a":      true,
	".avi":    true,
	".bin":    true,
	".bmp":    true,
	".class":  true,
	".db":     true,
	".dll":    true,
	".dylib":  true,
	".eot":    true,
	".exe":    true,
	".gif":    true,
	".gz":     true,
	".ico":    true,
	".jar":    true,
	".jpeg":   true,
	".jpg":    true,
	".mov":    true,
	".mp3":    true,
	".mp4":    true,
	".o":      true,
	".pdf":    true,
	".png":    true,
	".pyc":    true,
	".rar":    true,
	".so":     true,
	".sqlite": true,
	".tar":    true,
	".ttf":    true,
	".wasm":   true,
	".webp":   true,
	".woff":   true,
	".woff2":  true,
	".zip":    true,
}
