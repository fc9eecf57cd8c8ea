package question

import (
	"strings"

	"github.com/samber/lo"
)

// Keywords recognised by the tag extractor. The subject is always tagged
// first; keywords are matched as case-insensitive substrings of the question.
var tagKeywords = []string{
	"equation", "formula", "theorem", "definition", "concept", "example",
	"problem", "solution", "method", "principle", "law", "theory",
	"calculation", "analysis", "explanation", "comparison", "difference",
}

// ExtractTags derives search tags from the question text and subject.
func ExtractTags(questionText, subject string) []string {
	tags := []string{strings.ToLower(subject)}

	lower := strings.ToLower(questionText)
	for _, kw := range tagKeywords {
		if strings.Contains(lower, kw) {
			tags = append(tags, kw)
		}
	}

	return lo.Uniq(tags)
}
