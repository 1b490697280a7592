package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPhrases(t *testing.T) {
	phrases := SplitPhrases("First sentence. Second one.  . Third", 0)
	assert.Equal(t, []string{"First sentence", "Second one", "Third"}, phrases)
}

func TestSplitPhrasesLimit(t *testing.T) {
	phrases := SplitPhrases("a. b. c. d", 2)
	assert.Equal(t, []string{"a", "b"}, phrases)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet("short", 10))
	assert.Equal(t, "abc", Snippet("abcdef", 3))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "line one\nline two", CleanText("  line one  \n\n\n  line two \n"))
}

func TestParseNameEmail(t *testing.T) {
	resume := "Grace Hopper\ngrace.hopper@navy.mil\nSenior engineer with decades of experience building compilers and systems"

	name, email := ParseNameEmail(resume)

	assert.Equal(t, "Grace Hopper", name)
	assert.Equal(t, "grace.hopper@navy.mil", email)
}

func TestParseNameEmailMissing(t *testing.T) {
	name, email := ParseNameEmail("just a plain paragraph about work history and more work history here")

	assert.Empty(t, email)
	assert.Empty(t, name)
}

func TestParseNameEmailOnlyScansTop(t *testing.T) {
	resume := "A\nB\nC\nD\nE\nF\nG\nH\nburied.email@example.com"

	_, email := ParseNameEmail(resume)
	assert.Empty(t, email)
}
