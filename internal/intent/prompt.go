package intent

import "fmt"

// The oracle must answer with a single JSON object in this shape. Few-shot
// examples cover each action so temperature-0 sampling stays on-schema.
const promptTemplate = `You are an intelligent todo list management assistant. Analyze the user's natural language input and respond with ONLY a valid JSON object (no other text).

User Input: %q

Response Format:
{
    "action": "<action_type>",
    "todos": [
        {
            "title": "task title",
            "description": "task description or null",
            "due_date": "YYYY-MM-DD HH:mm:ss or null",
            "due_in_hours": number or null,
            "priority": 1|2|3,
            "category": "category name or null"
        }
    ],
    "filters": {
        "completed": true|false|null,
        "category": "category name or null",
        "priority": 1|2|3|null,
        "due_date_before": "YYYY-MM-DD HH:mm:ss or null",
        "due_date_after": "YYYY-MM-DD HH:mm:ss or null"
    },
    "view_options": {
        "sort_by": "priority|due_date|created_at|null",
        "sort_order": "asc|desc|null",
        "show_completed": true|false|null
    }
}

Action Types:
1. "create" - Create a new todo (keywords: need to, have to, should, must, want to, going to)
2. "update" - Update/modify/rename an existing todo; todos[0] is the current title, todos[1] is the new title
3. "delete" - Delete/remove a todo
4. "query" - List/filter/show/find todos
5. "mark_complete" - Mark as done/finished/completed
6. "mark_incomplete" - Mark as not done/pending
7. "list_all" - Show all todos

Examples:
- "Need to buy groceries" -> action "create", title "Buy Groceries"
- "Have to finish report by tomorrow" -> action "create" with due_date
- "Already completed the report" -> action "mark_complete", title "Report"
- "Need to change meeting to presentation" -> action "update", todos ["Meeting", "Presentation"]
- "Get rid of dentist appointment" -> action "delete", title "Dentist Appointment"
- "Show my high priority tasks" -> action "query", filters {"priority": 3}
- "Can't do the gym today" -> action "mark_incomplete", title "Gym"

Rules:
1. Always include all required fields; use null for missing values
2. Dates must use the exact format YYYY-MM-DD HH:mm:ss
3. Return ONLY the JSON object, no additional text`

const systemPrompt = `You are a precise todo list analyzer that excels at extracting tasks from natural language.

Critical rules:
1. For NEW tasks keep important context (location, person, specific details):
   "need to meet friend at labim mall" -> "Meet Friend at Labim Mall"
   "have to buy groceries from walmart" -> "Buy Groceries from Walmart"
2. For COMPLETED tasks match the task as it was created:
   "bought groceries from walmart" -> mark_complete for "Buy Groceries from Walmart"
3. Preserve time information: "meet john in 2hrs at cafe" -> title "Meet John at Cafe", due_in_hours 2
4. Keep locations ("at [place]", "from [place]") and people ("with [person]") in the title
5. Capitalize each word of the title; remove filler words but preserve context`

func renderPrompt(utterance string) string {
	return fmt.Sprintf(promptTemplate, utterance)
}
