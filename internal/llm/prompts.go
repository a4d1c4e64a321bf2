package llm

import (
	"fmt"
	"strings"
)

// suggestionPrompt asks for three candidate slots within standard business
// hours on the preferred date, as a JSON array of {start, end} pairs.
func suggestionPrompt(participants []string, date string, durationMinutes int) string {
	return fmt.Sprintf(
		"Suggest three 30-minute meeting slots for %s on %s for a %d-minute meeting. "+
			"Assume standard business hours (9 AM - 5 PM). "+
			"Return as a JSON array of objects, each with 'start' and 'end' in ISO 8601 format.",
		strings.Join(participants, ", "), date, durationMinutes)
}

// extractionPrompt asks the model to pull structured meeting fields out of a
// free-text request, with one worked example pinning the output shape.
func extractionPrompt(query string) string {
	return fmt.Sprintf(`Parse the following user request to schedule a meeting: %q.
Extract the meeting title (if any, otherwise use 'Meeting with [First Participant Name if available else "Team"]'), participants (as an array of strings, try to extract emails if provided in parentheses or clearly stated as email, otherwise use names), duration (in minutes, default to 30 if not specified), and specific date/time preferences or information (e.g., 'next Tuesday afternoon', 'tomorrow at 2 PM', '2024-08-15T14:00:00Z').
Output the result as a JSON object with keys: "title" (string), "participants" (array of strings), "durationMinutes" (number), "dateTimeInfo" (string describing date/time preference or a specific ISO date if parsable).
Example for "Book a 1 hour meeting with Jane (jane@example.com) and Tom for project sync next Monday morning":
{
  "title": "Project Sync",
  "participants": ["Jane (jane@example.com)", "Tom"],
  "durationMinutes": 60,
  "dateTimeInfo": "next Monday morning"
}
If an email is explicitly provided like (email@example.com), include it with the participant's name.
`, query)
}
