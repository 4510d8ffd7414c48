package intent

import (
	"testing"

	"github.com/minsuhan/tasktalk/internal/model"
)

func TestFallbackExtract(t *testing.T) {
	tests := []struct {
		name       string
		utterance  string
		wantAction model.Action
		wantTitle  string
	}{
		{
			name:       "plain create",
			utterance:  "need to buy groceries",
			wantAction: model.ActionCreate,
			wantTitle:  "Buy Groceries",
		},
		{
			name:       "add verb stripped",
			utterance:  "add a dentist appointment",
			wantAction: model.ActionCreate,
			wantTitle:  "A Dentist Appointment",
		},
		{
			name:       "delete keyword",
			utterance:  "remove the gym task",
			wantAction: model.ActionDelete,
			wantTitle:  "The Gym",
		},
		{
			name:       "cancel keyword",
			utterance:  "cancel my flight booking",
			wantAction: model.ActionDelete,
			wantTitle:  "Cancel My Flight Booking",
		},
		{
			name:       "complete keyword",
			utterance:  "laundry is done",
			wantAction: model.ActionMarkComplete,
			wantTitle:  "Laundry Is",
		},
		{
			name:       "delete wins over complete",
			utterance:  "delete the done items",
			wantAction: model.ActionDelete,
			wantTitle:  "The Items",
		},
		{
			name:       "edge punctuation trimmed",
			utterance:  "buy milk!!!",
			wantAction: model.ActionCreate,
			wantTitle:  "Buy Milk",
		},
		{
			name:       "keyword inside word is not a match",
			utterance:  "buy remover cream",
			wantAction: model.ActionCreate,
			wantTitle:  "Buy Remover Cream",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fallbackExtract(tt.utterance)
			if got.Action != tt.wantAction {
				t.Errorf("action = %s, want %s", got.Action, tt.wantAction)
			}
			if len(got.Drafts) != 1 {
				t.Fatalf("expected 1 draft, got %d", len(got.Drafts))
			}
			if got.Drafts[0].Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", got.Drafts[0].Title, tt.wantTitle)
			}
			if got.Drafts[0].Priority != model.PriorityLow {
				t.Errorf("priority = %d, want %d", got.Drafts[0].Priority, model.PriorityLow)
			}
		})
	}
}

func TestFallbackExtract_OnlyFillerWords(t *testing.T) {
	got := fallbackExtract("add todo task")
	if got.Action != model.ActionError {
		t.Fatalf("expected action=error, got %s", got.Action)
	}
	if got.ErrorMessage == "" {
		t.Error("expected a user-facing error message")
	}
}
