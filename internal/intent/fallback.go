package intent

import (
	"regexp"
	"strings"

	"github.com/minsuhan/tasktalk/internal/model"
)

// Word lists for the keyword fallback. Multi-word entries must come before
// their single-word prefixes so "need to" is stripped as a unit.
var fillerWords = []string{
	"need to", "have to", "want to", "going to",
	"add", "create", "delete", "remove", "update", "change",
	"complete", "finish", "finished", "done", "must", "should",
	"task", "todo",
}

var (
	deleteKeywords   = []string{"delete", "remove", "cancel"}
	completeKeywords = []string{"done", "complete", "finished"}
)

var (
	fillerRes      []*regexp.Regexp
	whitespaceRe   = regexp.MustCompile(`\s+`)
	edgePunctRe    = regexp.MustCompile(`^\W+|\W+$`)
	keywordMatchRe = map[string]*regexp.Regexp{}
)

func init() {
	for _, w := range fillerWords {
		fillerRes = append(fillerRes, regexp.MustCompile(`\b`+regexp.QuoteMeta(w)+`\b`))
	}
	for _, w := range append(append([]string{}, deleteKeywords...), completeKeywords...) {
		keywordMatchRe[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
}

// fallbackExtract is the keyword heuristic used when oracle output cannot be
// parsed: classify the action from keyword presence, strip action and filler
// words, and promote whatever is left to a task title.
func fallbackExtract(utterance string) model.Analysis {
	lower := strings.ToLower(utterance)

	action := model.ActionCreate
	switch {
	case containsAnyKeyword(lower, deleteKeywords):
		action = model.ActionDelete
	case containsAnyKeyword(lower, completeKeywords):
		action = model.ActionMarkComplete
	}

	title := NormalizeTitle(basicCleanup(lower))
	if title == "" {
		return model.ErrorAnalysis(
			"Failed to understand the request. Please try again.",
			"fallback extraction produced an empty title",
		)
	}

	return model.Analysis{
		Action: action,
		Drafts: []model.TaskDraft{{
			Title:    title,
			Priority: model.PriorityLow,
		}},
	}
}

func basicCleanup(text string) string {
	for _, re := range fillerRes {
		text = re.ReplaceAllString(text, "")
	}
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	return edgePunctRe.ReplaceAllString(text, "")
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, w := range keywords {
		if keywordMatchRe[w].MatchString(text) {
			return true
		}
	}
	return false
}
