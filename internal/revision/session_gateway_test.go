package revision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_revision "github.com/at-ishikawa/lexirev/internal/mocks/revision"
	"github.com/at-ishikawa/lexirev/internal/word"
)

var errStore = errors.New("connection refused")

func fixtureWords(stage word.Stage, targets ...string) []word.Word {
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	words := make([]word.Word, 0, len(targets))
	for i, target := range targets {
		words = append(words, word.Word{
			ID:             int64(i + 1),
			TargetWord:     target,
			Translation:    target + " (translation)",
			BlankedExample: word.FallbackExample,
			Stage:          stage,
			CreatedAt:      createdAt,
			LastTouchedAt:  createdAt.Add(time.Duration(i) * time.Minute),
		})
	}
	return words
}

func newMockSession(t *testing.T) (*Session, *mock_revision.MockGateway) {
	t.Helper()
	ctrl := gomock.NewController(t)
	gateway := mock_revision.NewMockGateway(ctrl)
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	return NewSession(gateway, WithClock(func() time.Time { return now })), gateway
}

func TestSession_SubmitFailure(t *testing.T) {
	ctx := context.Background()
	session, gateway := newMockSession(t)
	words := fixtureWords(0, "apple", "banana")

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(0)).Return(words, nil)
	require.NoError(t, session.SelectStage(ctx, 0))

	gateway.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errStore)
	_, err := session.Submit(ctx, "apple")
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.ErrorIs(t, err, errStore)

	state := session.State()
	assert.Equal(t, OutcomeError, state.Outcome)
	assert.Equal(t, word.Stage(0), state.Current.Stage)
	assert.Equal(t, 1, state.Position)
	assert.ErrorIs(t, session.Continue(ctx), ErrNoPendingAnswer)

	// A retry stores the answer.
	gateway.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *word.Word) error {
		assert.Equal(t, int64(1), w.ID)
		assert.Equal(t, word.Stage(1), w.Stage)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), w.LastTouchedAt)
		return nil
	})
	got, err := session.Submit(ctx, "apple")
	require.NoError(t, err)
	assert.True(t, got.LeftStage)
	assert.Equal(t, OutcomeCorrect, session.State().Outcome)
}

func TestSession_ContinueFailure(t *testing.T) {
	ctx := context.Background()
	session, gateway := newMockSession(t)
	words := fixtureWords(1, "cook", "book")

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(1)).Return(words, nil)
	require.NoError(t, session.SelectStage(ctx, 1))
	gateway.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	_, err := session.Submit(ctx, "wrong")
	require.NoError(t, err)

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(1)).Return(nil, errStore)
	err = session.Continue(ctx)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)

	state := session.State()
	assert.Equal(t, OutcomeIncorrect, state.Outcome)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, "cook", state.Current.TargetWord)

	requeued := []word.Word{words[1], words[0]}
	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(1)).Return(requeued, nil)
	require.NoError(t, session.Continue(ctx))
	state = session.State()
	assert.Equal(t, 2, state.Position)
	assert.Equal(t, "cook", state.Current.TargetWord)
	assert.Equal(t, OutcomeNone, state.Outcome)
}

func TestSession_SelectStageFailure(t *testing.T) {
	ctx := context.Background()
	session, gateway := newMockSession(t)

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(nil, errStore)
	err := session.SelectStage(ctx, 2)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.False(t, session.State().Selected)

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(0)).Return(fixtureWords(0, "apple"), nil)
	require.NoError(t, session.SelectStage(ctx, 0))
	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(3)).Return(nil, errStore)
	assert.ErrorIs(t, session.SelectStage(ctx, 3), ErrPersistenceUnavailable)

	state := session.State()
	assert.Equal(t, word.Stage(0), state.Stage)
	assert.Equal(t, "apple", state.Current.TargetWord)
}

func TestSession_DeleteFailure(t *testing.T) {
	ctx := context.Background()
	session, gateway := newMockSession(t)
	words := fixtureWords(2, "apple", "banana", "cherry")

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(words, nil)
	require.NoError(t, session.SelectStage(ctx, 2))

	gateway.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errStore)
	err := session.Delete(ctx)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	state := session.State()
	assert.Equal(t, 3, state.Total)
	assert.Equal(t, "apple", state.Current.TargetWord)
}

func TestSession_DeleteReloadFailure(t *testing.T) {
	ctx := context.Background()
	session, gateway := newMockSession(t)
	words := fixtureWords(2, "apple", "banana", "cherry")

	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(words, nil)
	require.NoError(t, session.SelectStage(ctx, 2))
	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(words, nil)
	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(words, nil)
	require.NoError(t, session.Skip(ctx))
	require.NoError(t, session.Skip(ctx))

	gomock.InOrder(
		gateway.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *word.Word) error {
			assert.Equal(t, "cherry", w.TargetWord)
			return nil
		}),
		gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(nil, errStore),
	)
	require.NoError(t, session.Delete(ctx))

	state := session.State()
	assert.Equal(t, 2, state.Total)
	assert.Equal(t, 2, state.Position)
	assert.Equal(t, "banana", state.Current.TargetWord)
}

func TestSession_CountsFailure(t *testing.T) {
	session, gateway := newMockSession(t)

	gateway.EXPECT().CountByStage(gomock.Any()).Return(nil, errStore)
	_, err := session.Counts(context.Background())
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
}

func TestSession_CountsFillsMissingStages(t *testing.T) {
	session, gateway := newMockSession(t)

	gateway.EXPECT().CountByStage(gomock.Any()).Return(map[word.Stage]int{1: 3}, nil)
	got, err := session.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[word.Stage]int{0: 0, 1: 3, 2: 0, 3: 0, 4: 0, 5: 0}, got)
}

func TestSession_StaleLoadIsDiscarded(t *testing.T) {
	ctx := context.Background()
	session, gateway := newMockSession(t)

	started := make(chan struct{})
	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(1)).DoAndReturn(func(ctx context.Context, _ word.Stage) ([]word.Word, error) {
		close(started)
		<-ctx.Done()
		return fixtureWords(1, "slow"), nil
	})
	gateway.EXPECT().FindByStage(gomock.Any(), word.Stage(2)).Return(fixtureWords(2, "fast"), nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- session.SelectStage(ctx, 1)
	}()
	<-started

	require.NoError(t, session.SelectStage(ctx, 2))
	assert.ErrorIs(t, <-errCh, ErrSuperseded)

	state := session.State()
	assert.Equal(t, word.Stage(2), state.Stage)
	assert.Equal(t, "fast", state.Current.TargetWord)
}
