package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o600))
	return path
}

func TestFingerprint_StableForUnchangedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "report.pdf")

	first, err := Fingerprint(path)
	require.NoError(t, err)
	second, err := Fingerprint(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "report-")
}

func TestFingerprint_ChangesWithModTime(t *testing.T) {
	path := writeFile(t, t.TempDir(), "report.pdf")

	before, err := Fingerprint(path)
	require.NoError(t, err)

	later := time.Now().Add(10 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	after, err := Fingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestFingerprint_SanitizesUnsafeCharacters(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Q3 report (final).pdf")

	fp, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Regexp(t, `^Q3_report__final_-\d+$`, fp)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.pdf")

	doc, err := New(dir, "report.pdf", "en", ProcessingOptions{
		InterpretTables: true,
		SplitStrategy:   "PARAGRAPH",
	})
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", doc.DisplayName)
	assert.Equal(t, "en", doc.Language)
	assert.Equal(t, doc.Fingerprint, doc.Slug())
	assert.True(t, filepath.IsAbs(doc.Path))
}

func TestResolveWithin_RejectsTraversal(t *testing.T) {
	root := t.TempDir()
	outside := writeFile(t, t.TempDir(), "secret.pdf")

	_, err := ResolveWithin(root, filepath.Join(root, "..", filepath.Base(filepath.Dir(outside)), "secret.pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestResolveWithin_RejectsSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := writeFile(t, t.TempDir(), "secret.pdf")

	link := filepath.Join(root, "inside.pdf")
	require.NoError(t, os.Symlink(outside, link))

	_, err := ResolveWithin(root, "inside.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestResolveWithin_RejectsDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))

	_, err := ResolveWithin(root, "sub")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotRegularFile)
}

func TestResolveWithin_RejectsMissingFile(t *testing.T) {
	_, err := ResolveWithin(t.TempDir(), "absent.pdf")
	require.Error(t, err)
}

func TestResolveWithin_AcceptsFileInRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "report.pdf")

	resolved, err := ResolveWithin(root, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", filepath.Base(resolved))
}
