package llm

import (
	"encoding/json"

	"smartmeet/internal/domain"
)

// Diagnostic messages surfaced to the user when a model response cannot be
// used. They are part of the assistant's conversational contract.
const (
	msgNotEnoughInfo   = "AI couldn't extract enough information. Please be more specific."
	msgUnexpectedShape = "AI response was not in the expected format. Please try again."
)

// ParseSuggestedSlots parses a model response into candidate time slots.
// It fails closed: invalid JSON or a non-array top level yields an empty
// slice, never an error. Elements are filtered to objects carrying string
// "start" and "end" fields; anything else, including extra fields, is
// dropped. Source order is preserved.
func ParseSuggestedSlots(raw string) []domain.TimeSlot {
	var parsed any
	if err := json.Unmarshal([]byte(Unwrap(raw)), &parsed); err != nil {
		return nil
	}
	items, ok := parsed.([]any)
	if !ok {
		return nil
	}
	slots := make([]domain.TimeSlot, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		start, startOK := obj["start"].(string)
		end, endOK := obj["end"].(string)
		if !startOK || !endOK {
			continue
		}
		slots = append(slots, domain.TimeSlot{Start: start, End: end})
	}
	return slots
}

// ParseMeetingRequest parses a model response into a ParsedMeetingRequest.
// Fields are copied only when they pass their individual type check;
// wrong-typed fields are dropped, not coerced. Validation is two-phase:
// a structural parse failure returns an error record, and a syntactically
// valid object from which no useful field could be extracted also returns an
// error record rather than an empty success.
func ParseMeetingRequest(raw, rawQuery string) domain.ParsedMeetingRequest {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(Unwrap(raw)), &parsed); err != nil {
		return domain.ParsedMeetingRequest{Error: msgUnexpectedShape, RawQuery: rawQuery}
	}

	result := domain.ParsedMeetingRequest{RawQuery: rawQuery}
	if title, ok := parsed["title"].(string); ok {
		result.Title = title
	}
	if list, ok := parsed["participants"].([]any); ok {
		for _, p := range list {
			if s, ok := p.(string); ok {
				result.Participants = append(result.Participants, s)
			}
		}
	}
	if minutes, ok := parsed["durationMinutes"].(float64); ok {
		result.DurationMinutes = int(minutes)
	}
	if info, ok := parsed["dateTimeInfo"].(string); ok {
		result.DateTimeInfo = info
	}

	if result.Empty() {
		return domain.ParsedMeetingRequest{Error: msgNotEnoughInfo, RawQuery: rawQuery}
	}
	return result
}
