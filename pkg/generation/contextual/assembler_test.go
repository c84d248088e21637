package contextual

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-studyaid-be/internal/pkg/logger"
	"ai-studyaid-be/pkg/generation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	recent []SessionRecord
	byId   map[uuid.UUID]*SessionRecord
	err    error

	recentLimit int
}

func (f *fakeSessions) RecentSessions(_ context.Context, _ uuid.UUID, limit int) ([]SessionRecord, error) {
	f.recentLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeSessions) SessionById(_ context.Context, id uuid.UUID) (*SessionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byId[id], nil
}

type fakeEvidence struct {
	items []EvidenceItem
	err   error
}

func (f *fakeEvidence) EvidenceByImage(_ context.Context, _ uuid.UUID) ([]EvidenceItem, error) {
	return f.items, f.err
}

type fakeChats struct {
	entries []ChatEntry
	err     error

	gotLimit int
}

func (f *fakeChats) RecentMessages(_ context.Context, _ uuid.UUID, limit int) ([]ChatEntry, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func TestAssembleBoundsSessions(t *testing.T) {
	sessions := &fakeSessions{
		recent: []SessionRecord{
			{Id: uuid.New(), Title: "s1", Content: "alpha"},
			{Id: uuid.New(), Title: "s2", Content: "beta"},
			{Id: uuid.New(), Title: "s3", Content: "gamma"},
			{Id: uuid.New(), Title: "s4", Content: "delta"},
		},
	}
	a := NewAssembler(sessions, nil, nil, logger.NewNopLogger())

	bundle := a.Assemble(context.Background(), generation.ContextRefs{UserId: uuid.New()})

	assert.Equal(t, maxSessions, sessions.recentLimit, "source should be asked for at most the session cap")
	assert.Equal(t, 3, bundle.SessionCount)
	assert.Len(t, bundle.Items, 3)
}

func TestAssembleExplicitSessionWins(t *testing.T) {
	target := uuid.New()
	sessions := &fakeSessions{
		recent: []SessionRecord{{Id: uuid.New(), Title: "unwanted"}},
		byId:   map[uuid.UUID]*SessionRecord{target: {Id: target, Title: "wanted", Content: "specific"}},
	}
	a := NewAssembler(sessions, nil, nil, logger.NewNopLogger())

	bundle := a.Assemble(context.Background(), generation.ContextRefs{
		UserId:    uuid.New(),
		SessionId: target,
	})

	require.Equal(t, 1, bundle.SessionCount)
	assert.Contains(t, bundle.Items[0].Text, "wanted")
}

func TestAssemblePerItemTruncation(t *testing.T) {
	sessions := &fakeSessions{
		recent: []SessionRecord{{Id: uuid.New(), Title: "big", Content: strings.Repeat("x", 2000)}},
	}
	a := NewAssembler(sessions, nil, nil, logger.NewNopLogger())

	bundle := a.Assemble(context.Background(), generation.ContextRefs{UserId: uuid.New()})

	require.Len(t, bundle.Items, 1)
	assert.Equal(t, perItemChars, len(bundle.Items[0].Text))
	assert.Equal(t, perItemChars, bundle.Items[0].TruncatedLength)
}

func TestAssembleTruncationKeepsValidUTF8(t *testing.T) {
	// Two-byte runes placed so the per-item byte cap lands mid-rune.
	sessions := &fakeSessions{
		recent: []SessionRecord{{Id: uuid.New(), Title: "big", Content: strings.Repeat("ä", 600)}},
	}
	a := NewAssembler(sessions, nil, nil, logger.NewNopLogger())

	bundle := a.Assemble(context.Background(), generation.ContextRefs{UserId: uuid.New()})

	require.Len(t, bundle.Items, 1)
	got := bundle.Items[0].Text
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), perItemChars)
	assert.Equal(t, len(got), bundle.Items[0].TruncatedLength)
}

func TestAssembleAggregateCap(t *testing.T) {
	// 20 evidence items of 500 chars each would be 10000 chars; the bundle
	// must stop taking items once the aggregate cap is reached.
	var items []EvidenceItem
	for i := 0; i < 20; i++ {
		items = append(items, EvidenceItem{Text: strings.Repeat("y", 500), Confidence: 0.5})
	}
	a := NewAssembler(nil, &fakeEvidence{items: items}, nil, logger.NewNopLogger())

	bundle := a.Assemble(context.Background(), generation.ContextRefs{ImageId: uuid.New()})

	assert.LessOrEqual(t, bundle.TotalChars, maxBundleChars+perItemChars)
	assert.Less(t, bundle.EvidenceCount, 20)
}

func TestAssembleChatLimit(t *testing.T) {
	var entries []ChatEntry
	for i := 0; i < 15; i++ {
		entries = append(entries, ChatEntry{Role: "user", Text: "hello"})
	}
	chats := &fakeChats{entries: entries}
	a := NewAssembler(nil, nil, chats, logger.NewNopLogger())

	t.Run("default cap", func(t *testing.T) {
		bundle := a.Assemble(context.Background(), generation.ContextRefs{SessionId: uuid.New()})
		assert.Equal(t, maxChatEntries, chats.gotLimit)
		assert.Equal(t, maxChatEntries, bundle.ChatCount)
	})

	t.Run("caller limit below cap", func(t *testing.T) {
		bundle := a.Assemble(context.Background(), generation.ContextRefs{SessionId: uuid.New(), Limit: 2})
		assert.Equal(t, 2, chats.gotLimit)
		assert.Equal(t, 2, bundle.ChatCount)
	})

	t.Run("caller limit above cap is ignored", func(t *testing.T) {
		a.Assemble(context.Background(), generation.ContextRefs{SessionId: uuid.New(), Limit: 50})
		assert.Equal(t, maxChatEntries, chats.gotLimit)
	})
}

func TestAssembleNeverRaises(t *testing.T) {
	boom := errors.New("store down")
	a := NewAssembler(
		&fakeSessions{err: boom},
		&fakeEvidence{err: boom},
		&fakeChats{err: boom},
		logger.NewNopLogger(),
	)

	bundle := a.Assemble(context.Background(), generation.ContextRefs{
		UserId:    uuid.New(),
		SessionId: uuid.New(),
		ImageId:   uuid.New(),
	})

	assert.Empty(t, bundle.Items, "failing sources must be omitted, not raised")
	assert.Equal(t, "", bundle.Text())
}

func TestAssembleNilSources(t *testing.T) {
	a := NewAssembler(nil, nil, nil, logger.NewNopLogger())

	bundle := a.Assemble(context.Background(), generation.ContextRefs{UserId: uuid.New()})
	assert.Empty(t, bundle.Items)
}

func TestBundleText(t *testing.T) {
	sessions := &fakeSessions{
		recent: []SessionRecord{{Id: uuid.New(), Title: "Calvin Cycle", Content: "fixes carbon"}},
	}
	a := NewAssembler(sessions, nil, nil, logger.NewNopLogger())

	text := a.ContextText(context.Background(), generation.ContextRefs{UserId: uuid.New()})
	assert.Contains(t, text, "Calvin Cycle: fixes carbon")
}
