package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	assert.Equal(t, []string{"World", "world2"}, ExtractHashtags("hello #World #world2!"))
}

func TestExtractHashtagsTrailingPunctuation(t *testing.T) {
	assert.Equal(t, []string{"go", "go"}, ExtractHashtags("#go, and #go again"))
}

func TestExtractHashtagsNone(t *testing.T) {
	assert.Empty(t, ExtractHashtags("no tags here"))
	assert.Empty(t, ExtractHashtags("bare # marker"))
	assert.Empty(t, ExtractHashtags(""))
}

func TestExtractMentions(t *testing.T) {
	assert.Equal(t, []string{"Alice", "bob"}, ExtractMentions("@Alice says hi to @bob"))
}

func TestExtractMentionsAdjacent(t *testing.T) {
	assert.Equal(t, []string{"a"}, ExtractMentions("@a@"))
	assert.Equal(t, []string{"a", "b"}, ExtractMentions("@a@b"))
}

func TestExtractKeepsDuplicatesAndCase(t *testing.T) {
	assert.Equal(t, []string{"Tag", "tag", "Tag"}, ExtractHashtags("#Tag #tag #Tag"))
}
