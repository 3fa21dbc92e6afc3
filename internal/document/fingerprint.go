package document

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// slugUnsafe matches characters that are not allowed in a resource slug.
var slugUnsafe = regexp.MustCompile(`[^A-Za-z0-9_\-:]`)

// Fingerprint derives the change-detection token for a file: its sanitized
// stem joined with the modification time in unix seconds. Touching the file
// produces a new fingerprint; renaming it does too.
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	safe := slugUnsafe.ReplaceAllString(stem, "_")
	return fmt.Sprintf("%s-%d", safe, info.ModTime().Unix()), nil
}
