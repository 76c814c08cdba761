package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/giorgimart/cityvibe/internal/ai"
	"github.com/giorgimart/cityvibe/internal/model"
)

// ErrEmptyMood is returned when the mood text is empty after trimming.
// Validation happens before any catalog fetch or upstream call.
var ErrEmptyMood = errors.New("mood is required")

// moodSystemPrompt is the fixed persona instruction sent as the system
// turn. It constrains the model to exactly two reply shapes: a
// "conversation" object and an "events" object carrying suggestions, and
// directs it to only produce the latter when the user actually expresses
// a mood or asks for recommendations.
const moodSystemPrompt = `You are a friendly and empathetic mood assistant helping people in Tbilisi, Georgia.

YOUR ROLE:
- Have natural, human-like conversations
- Be warm, understanding, and supportive
- Ask follow-up questions to understand their mood better
- ONLY suggest events when the user explicitly describes a mood/feeling or asks for recommendations

CONVERSATION GUIDELINES:
- If they greet you (hi, hello, how are you), respond warmly and ask how they're feeling
- If they ask general questions, answer naturally without pushing events
- If they share a mood/feeling, empathize and ask if they'd like event suggestions
- ONLY provide event recommendations when they actually want them

WHEN TO SUGGEST EVENTS:
- When they describe how they're feeling (stressed, sad, bored, anxious, happy, etc.)
- When they explicitly ask for recommendations
- When they say yes to your offer of suggestions

EVENT RECOMMENDATION RULES (ONLY when appropriate):
- If stressed: calming activities like yoga, nature walks, cultural events
- If sad: uplifting activities like music, comedy, social events
- If bored: exciting activities like sports, nightlife, adventure
- If anxious: grounding activities like meditation, art, quiet cultural experiences
- If lonely: social events where they can meet people
- If happy: energetic activities to maintain the positive mood

RESPONSE FORMAT:
If suggesting events, respond with JSON:
{
  "type": "events",
  "message": "your conversational message",
  "suggestions": [
    {
      "title": "event title",
      "reason": "why this helps their mood",
      "wellness_benefit": "specific wellness benefit"
    }
  ]
}

If just conversing, respond with JSON:
{
  "type": "conversation",
  "message": "your friendly response"
}`

// Completer sends one system+user message pair to the completion gateway
// and returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// CatalogLister returns the full event catalog, time ascending. Unlike
// the recommendation scorer this includes past events; the upstream
// prompt carries whatever the catalog holds.
type CatalogLister interface {
	ListAll(ctx context.Context) ([]model.Event, error)
}

// MoodService turns free-text mood input into either a conversational
// reply or a short list of suggestions grounded in real events. It keeps
// no state between calls; conversation history is the caller's business.
type MoodService struct {
	events CatalogLister
	ai     Completer
}

// NewMoodService constructs a MoodService.
func NewMoodService(events CatalogLister, completer Completer) *MoodService {
	if events == nil || completer == nil {
		panic("nil dependency passed to NewMoodService")
	}
	return &MoodService{events: events, ai: completer}
}

// MoodResult is the reply for one mood request. Type is "events" when
// the reply carried reconciled suggestions, "conversation" otherwise.
type MoodResult struct {
	Type        string             `json:"type"`
	Message     string             `json:"message"`
	Suggestions []model.Suggestion `json:"suggestions"`
	Mood        string             `json:"mood"`
}

// catalogEntry is the compact event representation serialized into the
// user turn of the prompt.
type catalogEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Price       uint32 `json:"price"`
}

// parsedReply mirrors the two JSON shapes the system prompt allows.
type parsedReply struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Suggestions []struct {
		Title           string `json:"title"`
		Reason          string `json:"reason"`
		WellnessBenefit string `json:"wellness_benefit"`
	} `json:"suggestions"`
}

// Suggest runs one mood exchange: validate, fetch the catalog, call the
// completion gateway, extract and parse the reply, and reconcile any
// suggested titles against real events. Suggestions whose title matches
// no catalog event (case-insensitively) are dropped without surfacing an
// error; a reply that yields no parseable JSON degrades to a plain
// conversation carrying the raw text.
func (s *MoodService) Suggest(ctx context.Context, mood string) (*MoodResult, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, ErrEmptyMood
	}

	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]catalogEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, catalogEntry{
			ID:          e.ID,
			Title:       e.Title,
			Category:    e.Category,
			Description: e.Description,
			Time:        e.Time.UTC().Format(time.RFC3339),
			Location:    e.LocationName,
			Price:       e.Price,
		})
	}
	catalog, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, err
	}
	userTurn := fmt.Sprintf("User says: %q\n\nAvailable events (only use if suggesting events):\n%s", mood, catalog)

	raw, err := s.ai.Complete(ctx, moodSystemPrompt, userTurn)
	if err != nil {
		return nil, err
	}
	return s.interpret(raw, mood, events), nil
}

// interpret maps the raw model reply to a MoodResult. The three-way
// outcome is explicit: well-formed events payload, well-formed
// conversation payload, or unparseable text falling back to conversation.
func (s *MoodService) interpret(raw, mood string, events []model.Event) *MoodResult {
	conversation := &MoodResult{
		Type:        "conversation",
		Message:     raw,
		Suggestions: []model.Suggestion{},
		Mood:        mood,
	}

	obj, ok := ai.ExtractJSONObject(raw)
	if !ok {
		return conversation
	}
	var parsed parsedReply
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return conversation
	}

	if parsed.Type != "events" || len(parsed.Suggestions) == 0 {
		if parsed.Message != "" {
			conversation.Message = parsed.Message
		}
		return conversation
	}

	byTitle := make(map[string]*model.Event, len(events))
	for i := range events {
		byTitle[strings.ToLower(events[i].Title)] = &events[i]
	}

	suggestions := []model.Suggestion{}
	for _, sug := range parsed.Suggestions {
		matched, ok := byTitle[strings.ToLower(sug.Title)]
		if !ok {
			// hallucinated title, silently discarded
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			EventID:         matched.ID,
			Title:           sug.Title,
			Reason:          sug.Reason,
			WellnessBenefit: sug.WellnessBenefit,
		})
	}
	return &MoodResult{
		Type:        "events",
		Message:     parsed.Message,
		Suggestions: suggestions,
		Mood:        mood,
	}
}
