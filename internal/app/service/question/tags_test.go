package question

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTags_SubjectAlwaysFirst(t *testing.T) {
	tags := ExtractTags("What is the capital of France?", "Geography")
	require.Equal(t, "geography", tags[0])
}

func TestExtractTags_MatchesKeywordsCaseInsensitively(t *testing.T) {
	tags := ExtractTags("Give me an EXAMPLE of a quadratic EQUATION", "Mathematics")
	require.Contains(t, tags, "example")
	require.Contains(t, tags, "equation")
}

func TestExtractTags_Deduplicates(t *testing.T) {
	tags := ExtractTags("what is a method?", "Method")
	require.Equal(t, []string{"method"}, tags)
}

func TestExtractTags_NoKeywordYieldsSubjectOnly(t *testing.T) {
	tags := ExtractTags("bonjour", "French")
	require.Equal(t, []string{"french"}, tags)
}

func TestAvailableCatalog_SubjectsSorted(t *testing.T) {
	cat := AvailableCatalog()
	require.NotEmpty(t, cat.Subjects)
	for i := 1; i < len(cat.Subjects); i++ {
		require.LessOrEqual(t, cat.Subjects[i-1], cat.Subjects[i])
	}
	require.Contains(t, cat.QuestionTypes, "explanation")
	require.Contains(t, cat.GradeLevels, "Terminale")
}
