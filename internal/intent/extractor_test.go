package intent_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/minsuhan/tasktalk/internal/intent"
	"github.com/minsuhan/tasktalk/internal/model"
	"github.com/minsuhan/tasktalk/internal/oracle"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// stubOracle implements oracle.Client with a canned response.
type stubOracle struct {
	response  string
	err       error
	gotPrompt string
	gotSystem string
	gotTemp   float64
}

func (s *stubOracle) Complete(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	s.gotPrompt = prompt
	s.gotSystem = systemPrompt
	s.gotTemp = temperature
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newExtractor(stub *stubOracle) *intent.Extractor {
	return intent.NewExtractor(stub, 0, intent.WithClock(func() time.Time { return testNow }))
}

func timePtr(t time.Time) *time.Time { return &t }

func TestExtract_Create(t *testing.T) {
	stub := &stubOracle{response: `{
		"action": "create",
		"todos": [{
			"title": "Buy Milk",
			"description": null,
			"due_date": "2025-03-02 09:00:00",
			"due_in_hours": null,
			"priority": 2,
			"category": "errands"
		}]
	}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "need to buy milk tomorrow")

	if got.Action != model.ActionCreate {
		t.Fatalf("expected action=create, got %s", got.Action)
	}
	want := []model.TaskDraft{{
		Title:    "Buy Milk",
		DueDate:  timePtr(time.Date(2025, 3, 2, 9, 0, 0, 0, time.Local)),
		Priority: 2,
		Category: "errands",
	}}
	if diff := cmp.Diff(want, got.Drafts); diff != "" {
		t.Errorf("drafts mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_PromptContainsUtterance(t *testing.T) {
	stub := &stubOracle{response: `{"action":"create","todos":[{"title":"Buy Milk","priority":1}]}`}
	e := newExtractor(stub)

	e.Extract(context.Background(), "need to buy milk")

	if !strings.Contains(stub.gotPrompt, "need to buy milk") {
		t.Errorf("prompt does not embed the utterance: %s", stub.gotPrompt)
	}
	if stub.gotTemp != 0 {
		t.Errorf("expected temperature 0, got %v", stub.gotTemp)
	}
	if stub.gotSystem == "" {
		t.Error("expected a system prompt")
	}
}

func TestExtract_DurationOverridesDueDate(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		wantHours int
	}{
		{"hours", "meet john in 2 hours", 2},
		{"hrs", "meeting in 3hrs", 3},
		{"hr", "call mom in 1 hr", 1},
		{"hour", "submit report in 5 hour", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// oracle supplies a conflicting due date; the regex wins
			stub := &stubOracle{response: `{
				"action": "create",
				"todos": [{"title": "Meet John", "due_date": "2025-06-01 00:00:00", "priority": 1}]
			}`}
			e := newExtractor(stub)

			got := e.Extract(context.Background(), tt.utterance)

			if len(got.Drafts) != 1 {
				t.Fatalf("expected 1 draft, got %d", len(got.Drafts))
			}
			draft := got.Drafts[0]
			wantDue := testNow.Add(time.Duration(tt.wantHours) * time.Hour)
			if draft.DueDate == nil || !draft.DueDate.Equal(wantDue) {
				t.Errorf("expected due=%v, got %v", wantDue, draft.DueDate)
			}
			if !strings.Contains(draft.Description, "Due in") {
				t.Errorf("expected duration annotation in description, got %q", draft.Description)
			}
		})
	}
}

func TestExtract_CommaSplitsIntoMultipleDrafts(t *testing.T) {
	stub := &stubOracle{response: `{
		"action": "create",
		"todos": [{"title": "Buy Milk", "priority": 3, "category": "errands"}]
	}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "buy milk, call mom, clean house")

	if len(got.Drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(got.Drafts))
	}
	wantTitles := []string{"Buy Milk", "Call Mom", "Clean House"}
	for i, want := range wantTitles {
		if got.Drafts[i].Title != want {
			t.Errorf("draft[%d]: expected title %q, got %q", i, want, got.Drafts[i].Title)
		}
		// split items reuse the first draft's fields
		if got.Drafts[i].Priority != 3 {
			t.Errorf("draft[%d]: expected priority 3, got %d", i, got.Drafts[i].Priority)
		}
		if got.Drafts[i].Category != "errands" {
			t.Errorf("draft[%d]: expected category errands, got %q", i, got.Drafts[i].Category)
		}
	}
}

func TestExtract_MalformedDueDateRejected(t *testing.T) {
	tests := []struct {
		name    string
		dueDate string
	}{
		{"free text", "tomorrow"},
		{"date only", "2025-03-02"},
		{"iso8601", "2025-03-02T09:00:00Z"},
		{"slashes", "2025/03/02 09:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubOracle{response: `{
				"action": "create",
				"todos": [{"title": "Buy Milk", "due_date": "` + tt.dueDate + `", "priority": 1}]
			}`}
			e := newExtractor(stub)

			got := e.Extract(context.Background(), "need to buy milk")

			if len(got.Drafts) != 1 {
				t.Fatalf("expected 1 draft, got %d", len(got.Drafts))
			}
			if got.Drafts[0].DueDate != nil {
				t.Errorf("expected malformed due date to be dropped, got %v", got.Drafts[0].DueDate)
			}
		})
	}
}

func TestExtract_DueInHours(t *testing.T) {
	stub := &stubOracle{response: `{
		"action": "create",
		"todos": [{"title": "Meeting", "due_in_hours": 4, "priority": 1}]
	}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "schedule the meeting")

	if len(got.Drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(got.Drafts))
	}
	wantDue := testNow.Add(4 * time.Hour)
	if got.Drafts[0].DueDate == nil || !got.Drafts[0].DueDate.Equal(wantDue) {
		t.Errorf("expected due=%v, got %v", wantDue, got.Drafts[0].DueDate)
	}
}

func TestExtract_MarkCompleteNormalizesTitle(t *testing.T) {
	stub := &stubOracle{response: `{
		"action": "mark_complete",
		"todos": [{"title": "buy milk", "priority": 1}]
	}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "mark buy milk as done")

	if got.Action != model.ActionMarkComplete {
		t.Fatalf("expected action=mark_complete, got %s", got.Action)
	}
	if len(got.Drafts) != 1 || got.Drafts[0].Title != "Buy Milk" {
		t.Errorf("expected normalized title Buy Milk, got %+v", got.Drafts)
	}
}

func TestExtract_RenamePair(t *testing.T) {
	stub := &stubOracle{response: `{
		"action": "update",
		"todos": [
			{"title": "Meeting", "priority": 1},
			{"title": "Presentation", "priority": 1}
		]
	}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "change meeting to presentation")

	if got.Action != model.ActionUpdate {
		t.Fatalf("expected action=update, got %s", got.Action)
	}
	if len(got.Drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(got.Drafts))
	}
	if got.Drafts[0].Title != "Meeting" || got.Drafts[1].Title != "Presentation" {
		t.Errorf("unexpected rename pair: %+v", got.Drafts)
	}
}

func TestExtract_QueryFiltersAndView(t *testing.T) {
	stub := &stubOracle{response: `{
		"action": "query",
		"todos": [],
		"filters": {"completed": false, "priority": 3, "category": "work"},
		"view_options": {"sort_by": "due_date", "sort_order": "desc", "show_completed": false}
	}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "show my urgent work tasks")

	if got.Action != model.ActionQuery {
		t.Fatalf("expected action=query, got %s", got.Action)
	}
	if got.Filters == nil {
		t.Fatal("expected filters")
	}
	if got.Filters.Completed == nil || *got.Filters.Completed {
		t.Error("expected completed=false filter")
	}
	if got.Filters.Priority == nil || *got.Filters.Priority != 3 {
		t.Error("expected priority=3 filter")
	}
	if got.Filters.Category == nil || *got.Filters.Category != "work" {
		t.Error("expected category=work filter")
	}
	if got.View == nil || got.View.SortBy != "due_date" || got.View.SortOrder != "desc" {
		t.Errorf("unexpected view options: %+v", got.View)
	}
}

func TestExtract_CodeFencedJSON(t *testing.T) {
	stub := &stubOracle{response: "```json\n{\"action\":\"create\",\"todos\":[{\"title\":\"Buy Milk\",\"priority\":1}]}\n```"}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "need to buy milk")

	if got.Action != model.ActionCreate {
		t.Fatalf("expected action=create, got %s", got.Action)
	}
	if len(got.Drafts) != 1 || got.Drafts[0].Title != "Buy Milk" {
		t.Errorf("unexpected drafts: %+v", got.Drafts)
	}
}

func TestExtract_NonJSONFallsBack(t *testing.T) {
	stub := &stubOracle{response: "Sure! I'll add that to your list."}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "need to buy groceries")

	if got.Action != model.ActionCreate {
		t.Fatalf("expected fallback action=create, got %s", got.Action)
	}
	if len(got.Drafts) != 1 || got.Drafts[0].Title != "Buy Groceries" {
		t.Errorf("expected stripped capitalized title, got %+v", got.Drafts)
	}
}

func TestExtract_UnknownActionFallsBack(t *testing.T) {
	stub := &stubOracle{response: `{"action": "dance", "todos": []}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "need to buy groceries")

	if got.Action != model.ActionCreate {
		t.Fatalf("expected fallback action=create, got %s", got.Action)
	}
}

func TestExtract_OracleFailureReturnsErrorAnalysis(t *testing.T) {
	stub := &stubOracle{err: oracle.ErrUnavailable}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "need to buy milk")

	if got.Action != model.ActionError {
		t.Fatalf("expected action=error, got %s", got.Action)
	}
	if got.ErrorMessage == "" {
		t.Error("expected a user-facing error message")
	}
	if got.Detail == "" {
		t.Error("expected diagnostic detail")
	}
}

func TestExtract_WrappedOracleFailure(t *testing.T) {
	stub := &stubOracle{err: errors.New("connection refused")}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "need to buy milk")

	if got.Action != model.ActionError {
		t.Fatalf("expected action=error, got %s", got.Action)
	}
}

func TestExtract_EmptyUtterance(t *testing.T) {
	stub := &stubOracle{response: `{"action":"create","todos":[]}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "   ")

	if got.Action != model.ActionError {
		t.Fatalf("expected action=error for empty utterance, got %s", got.Action)
	}
	if stub.gotPrompt != "" {
		t.Error("oracle should not be called for an empty utterance")
	}
}

func TestExtract_CreateWithoutDraftsReconstructsFromUtterance(t *testing.T) {
	stub := &stubOracle{response: `{"action": "create", "todos": []}`}
	e := newExtractor(stub)

	got := e.Extract(context.Background(), "buy milk")

	if got.Action != model.ActionCreate {
		t.Fatalf("expected action=create, got %s", got.Action)
	}
	if len(got.Drafts) != 1 || got.Drafts[0].Title != "Buy Milk" {
		t.Errorf("expected draft reconstructed from utterance, got %+v", got.Drafts)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"buy milk", "Buy Milk"},
		{"BUY MILK", "Buy Milk"},
		{"  meet   friend at mall ", "Meet Friend At Mall"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := intent.NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
