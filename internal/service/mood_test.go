package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giorgimart/cityvibe/internal/ai"
	"github.com/giorgimart/cityvibe/internal/model"
)

type fakeCatalog struct{ events []model.Event }

func (f *fakeCatalog) ListAll(context.Context) ([]model.Event, error) { return f.events, nil }

// fakeCompleter records the prompt it was given and replies with a canned
// string or error.
type fakeCompleter struct {
	reply    string
	err      error
	calls    int
	lastUser string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.lastUser = user
	return f.reply, f.err
}

func moodCatalog() []model.Event {
	return []model.Event{
		{ID: "ev-yoga", Title: "Sunset Yoga at Turtle Lake", Category: "wellness", Time: time.Now()},
		{ID: "ev-jazz", Title: "Jazz at Fabrika", Category: "music", Time: time.Now()},
	}
}

func TestSuggest_ReconcilesTitles(t *testing.T) {
	completer := &fakeCompleter{reply: `{
		"type": "events",
		"message": "These should help you unwind.",
		"suggestions": [
			{"title": "sunset yoga at turtle lake", "reason": "calming", "wellness_benefit": "lowers stress"},
			{"title": "Imaginary Rooftop Rave", "reason": "fun", "wellness_benefit": "energy"}
		]
	}`}
	svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

	res, err := svc.Suggest(context.Background(), "I feel stressed")
	require.NoError(t, err)
	assert.Equal(t, "events", res.Type)
	assert.Equal(t, "These should help you unwind.", res.Message)
	assert.Equal(t, "I feel stressed", res.Mood)

	// the matching title resolves to the real event id, the hallucinated
	// one is dropped entirely
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "ev-yoga", res.Suggestions[0].EventID)
	assert.Equal(t, "lowers stress", res.Suggestions[0].WellnessBenefit)
}

func TestSuggest_NonJSONReplyFallsBackToConversation(t *testing.T) {
	completer := &fakeCompleter{reply: "I'm glad you're doing well! How has your day been?"}
	svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

	res, err := svc.Suggest(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "conversation", res.Type)
	assert.Equal(t, completer.reply, res.Message)
	assert.Empty(t, res.Suggestions)
}

func TestSuggest_ConversationJSON(t *testing.T) {
	completer := &fakeCompleter{reply: "Here you go:\n" +
		`{"type":"conversation","message":"Hi! How are you feeling today?"}`}
	svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

	res, err := svc.Suggest(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "conversation", res.Type)
	assert.Equal(t, "Hi! How are you feeling today?", res.Message)
	assert.Empty(t, res.Suggestions)
}

func TestSuggest_EmptyMoodRejectedBeforeUpstreamCall(t *testing.T) {
	completer := &fakeCompleter{reply: "should never be used"}
	svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

	for _, mood := range []string{"", "   ", "\n\t"} {
		_, err := svc.Suggest(context.Background(), mood)
		assert.ErrorIs(t, err, ErrEmptyMood)
	}
	assert.Zero(t, completer.calls)
}

func TestSuggest_UpstreamErrorsPassThrough(t *testing.T) {
	for _, sentinel := range []error{ai.ErrRateLimited, ai.ErrQuotaExceeded} {
		completer := &fakeCompleter{err: sentinel}
		svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

		_, err := svc.Suggest(context.Background(), "I feel bored")
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestSuggest_PromptCarriesMoodAndCatalog(t *testing.T) {
	completer := &fakeCompleter{reply: `{"type":"conversation","message":"ok"}`}
	svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

	_, err := svc.Suggest(context.Background(), "feeling lonely tonight")
	require.NoError(t, err)
	assert.True(t, strings.Contains(completer.lastUser, `"feeling lonely tonight"`))
	assert.True(t, strings.Contains(completer.lastUser, "Jazz at Fabrika"))
	assert.True(t, strings.Contains(completer.lastUser, "ev-yoga"))
}

func TestSuggest_AllSuggestionsDroppedKeepsEventsShape(t *testing.T) {
	completer := &fakeCompleter{reply: `{
		"type": "events",
		"message": "Try these!",
		"suggestions": [{"title": "Nothing Real", "reason": "r", "wellness_benefit": "w"}]
	}`}
	svc := NewMoodService(&fakeCatalog{events: moodCatalog()}, completer)

	res, err := svc.Suggest(context.Background(), "bored")
	require.NoError(t, err)
	assert.Equal(t, "events", res.Type)
	assert.Empty(t, res.Suggestions)
}
