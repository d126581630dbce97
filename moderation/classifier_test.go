package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifier_Tags_In_Match_Order(t *testing.T) {
	req := require.New(t)
	classifier, err := NewClassifier([]string{"spam", "insult", "flood"})
	req.NoError(err)

	tags := classifier.Tags("constant insult and spam in every message")

	req.Equal([]string{"insult", "spam"}, tags)
}

func TestClassifier_Tags_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	classifier, err := NewClassifier([]string{"spam"})
	req.NoError(err)

	req.Equal([]string{"spam"}, classifier.Tags("SPAM everywhere"))
}

func TestClassifier_Tags_Deduplicated(t *testing.T) {
	req := require.New(t)
	classifier, err := NewClassifier([]string{"spam"})
	req.NoError(err)

	req.Equal([]string{"spam"}, classifier.Tags("spam spam spam"))
}

func TestClassifier_No_Match(t *testing.T) {
	req := require.New(t)
	classifier, err := NewClassifier([]string{"spam"})
	req.NoError(err)

	req.Empty(classifier.Tags("a perfectly fine message"))
}

func TestDefaultClassifier_Covers_Embedded_Terms(t *testing.T) {
	req := require.New(t)
	classifier, err := NewDefaultClassifier()
	req.NoError(err)

	req.Contains(classifier.Tags("harass and doxx"), "harass")
	req.Contains(classifier.Tags("harass and doxx"), "doxx")
}

func TestDetectLang(t *testing.T) {
	req := require.New(t)

	req.Equal("ru", DetectLang("Привет, как у тебя дела сегодня?"))
	req.Equal("en", DetectLang("Hello there, how are you doing today my friend?"))
}
