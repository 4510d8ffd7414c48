// Package intent turns a free-text utterance into a structured Analysis: a
// classified action plus candidate task drafts, filters, and view options.
// The oracle does the heavy lifting; a keyword heuristic covers for it when
// its output cannot be parsed.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/minsuhan/tasktalk/internal/model"
	"github.com/minsuhan/tasktalk/internal/oracle"
)

// oracleDateLayout is the only date format accepted from oracle output.
// Anything else is treated as malformed and dropped.
const oracleDateLayout = "2006-01-02 15:04:05"

var durationRe = regexp.MustCompile(`(\d+)\s*(hr|hour|hrs|hours)`)

type Extractor struct {
	oracle      oracle.Client
	temperature float64
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Extractor)

// WithClock overrides the time source, used to pin "due in N hours" math in
// tests.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

func NewExtractor(client oracle.Client, temperature float64, opts ...Option) *Extractor {
	e := &Extractor{
		oracle:      client,
		temperature: temperature,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// wire types mirror the JSON schema the oracle is instructed to emit.
type wireAnalysis struct {
	Action  string      `json:"action"`
	Todos   []wireTodo  `json:"todos"`
	Filters *wireFilter `json:"filters"`
	View    *wireView   `json:"view_options"`
}

type wireTodo struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DueDate     *string  `json:"due_date"`
	DueInHours  *float64 `json:"due_in_hours"`
	Priority    int      `json:"priority"`
	Category    *string  `json:"category"`
}

type wireFilter struct {
	Completed *bool   `json:"completed"`
	Category  *string `json:"category"`
	Priority  *int    `json:"priority"`
	DueBefore *string `json:"due_date_before"`
	DueAfter  *string `json:"due_date_after"`
}

type wireView struct {
	SortBy        *string `json:"sort_by"`
	SortOrder     *string `json:"sort_order"`
	ShowCompleted *bool   `json:"show_completed"`
}

// Extract never fails: oracle outages produce an error analysis and malformed
// oracle output falls back to keyword extraction.
func (e *Extractor) Extract(ctx context.Context, utterance string) model.Analysis {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return model.ErrorAnalysis("Please enter a request.", "empty utterance")
	}

	raw, err := e.oracle.Complete(ctx, renderPrompt(utterance), systemPrompt, e.temperature)
	if err != nil {
		e.logger.Warn("oracle call failed", "error", err)
		return model.ErrorAnalysis(
			"An error occurred while processing your request. Please try again.",
			err.Error(),
		)
	}

	analysis, ok := e.parse(raw)
	if !ok {
		e.logger.Info("oracle returned unparseable output, using fallback extraction")
		return fallbackExtract(utterance)
	}

	if analysis.Action == model.ActionCreate {
		analysis.Drafts = e.expandCreateDrafts(utterance, analysis.Drafts)
	} else {
		for i := range analysis.Drafts {
			analysis.Drafts[i].Title = NormalizeTitle(analysis.Drafts[i].Title)
		}
	}

	return analysis
}

// parse strictly decodes the oracle's reply against the declared schema.
// ok=false means the reply was unusable and the caller should fall back.
func (e *Extractor) parse(raw string) (model.Analysis, bool) {
	var wire wireAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &wire); err != nil {
		return model.Analysis{}, false
	}

	action := model.Action(wire.Action)
	if !action.IsValid() || action == model.ActionError {
		return model.Analysis{}, false
	}

	analysis := model.Analysis{Action: action}

	for _, wt := range wire.Todos {
		title := strings.TrimSpace(wt.Title)
		if title == "" {
			continue
		}
		draft := model.TaskDraft{
			Title:    title,
			Priority: clampPriority(wt.Priority),
		}
		if wt.Description != nil {
			draft.Description = strings.TrimSpace(*wt.Description)
		}
		if wt.Category != nil {
			draft.Category = strings.TrimSpace(*wt.Category)
		}
		if wt.DueDate != nil {
			if due, err := time.ParseInLocation(oracleDateLayout, *wt.DueDate, time.Local); err == nil {
				draft.DueDate = &due
			}
			// malformed dates are rejected, not guessed at
		}
		if draft.DueDate == nil && wt.DueInHours != nil && *wt.DueInHours >= 0 {
			due := e.now().Add(time.Duration(*wt.DueInHours * float64(time.Hour)))
			draft.DueDate = &due
		}
		analysis.Drafts = append(analysis.Drafts, draft)
	}

	if wire.Filters != nil {
		analysis.Filters = parseFilters(*wire.Filters)
	}
	if wire.View != nil {
		analysis.View = parseView(*wire.View)
	}

	return analysis, true
}

// expandCreateDrafts applies the create post-processing rules: a comma in the
// utterance means one draft per comma-separated item, every item reusing the
// first draft's fields except the title. A trailing duration phrase like
// "in 2 hours" overrides the due date for that item.
func (e *Extractor) expandCreateDrafts(utterance string, drafts []model.TaskDraft) []model.TaskDraft {
	base := model.TaskDraft{Priority: model.PriorityLow}
	if len(drafts) > 0 {
		base = drafts[0]
	}
	if base.Title == "" {
		base.Title = utterance
	}

	items := []string{utterance}
	if strings.Contains(utterance, ",") {
		items = items[:0]
		for _, part := range strings.Split(utterance, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	}

	out := make([]model.TaskDraft, 0, len(items))
	for i, item := range items {
		draft := base
		if len(items) > 1 && i > 0 {
			draft.Title = item
		}
		draft.Title = NormalizeTitle(draft.Title)

		if m := durationRe.FindStringSubmatch(strings.ToLower(item)); m != nil {
			if hours, err := strconv.Atoi(m[1]); err == nil {
				due := e.now().Add(time.Duration(hours) * time.Hour)
				draft.DueDate = &due
				draft.Description = fmt.Sprintf("%s (Due in %d hours)", draft.Title, hours)
			}
		}

		out = append(out, draft)
	}
	return out
}

func parseFilters(wf wireFilter) *model.Filters {
	f := &model.Filters{
		Completed: wf.Completed,
		Priority:  wf.Priority,
	}
	if wf.Category != nil && strings.TrimSpace(*wf.Category) != "" {
		category := strings.TrimSpace(*wf.Category)
		f.Category = &category
	}
	if wf.DueBefore != nil {
		if t, err := time.ParseInLocation(oracleDateLayout, *wf.DueBefore, time.Local); err == nil {
			f.DueBefore = &t
		}
	}
	if wf.DueAfter != nil {
		if t, err := time.ParseInLocation(oracleDateLayout, *wf.DueAfter, time.Local); err == nil {
			f.DueAfter = &t
		}
	}
	if f.Completed == nil && f.Priority == nil && f.Category == nil && f.DueBefore == nil && f.DueAfter == nil {
		return nil
	}
	return f
}

func parseView(wv wireView) *model.ViewOptions {
	v := &model.ViewOptions{ShowCompleted: wv.ShowCompleted}
	if wv.SortBy != nil {
		switch *wv.SortBy {
		case "priority", "due_date", "created_at":
			v.SortBy = *wv.SortBy
		}
	}
	if wv.SortOrder != nil {
		switch strings.ToLower(*wv.SortOrder) {
		case "asc", "desc":
			v.SortOrder = strings.ToLower(*wv.SortOrder)
		}
	}
	if v.SortBy == "" && v.SortOrder == "" && v.ShowCompleted == nil {
		return nil
	}
	return v
}

func clampPriority(p int) int {
	if p < model.PriorityLow || p > model.PriorityHigh {
		return model.PriorityLow
	}
	return p
}

// stripCodeFence removes a markdown fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NormalizeTitle capitalizes each whitespace-separated word so titles compare
// consistently with later matching.
func NormalizeTitle(title string) string {
	words := strings.Fields(title)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}
