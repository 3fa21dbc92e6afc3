package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnippet_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n  b\tc"))
}

func TestSnippet_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("x", snippetWidth+50)

	got := snippet(long)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, snippetWidth+3)
}

func TestSnippet_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", snippet("short"))
}
