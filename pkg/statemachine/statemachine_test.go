package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialdash/dashboard/pkg/statemachine"
)

type state string
type event string

const (
	draft     state = "draft"
	review    state = "review"
	published state = "published"

	submit  event = "submit"
	approve event = "approve"
)

func TestTable_Next(t *testing.T) {
	t.Parallel()

	table := statemachine.MustNew(
		statemachine.WithTransition(draft, submit, review),
		statemachine.WithTransition(review, approve, published),
	)

	t.Run("follows registered transitions", func(t *testing.T) {
		next, err := table.Next(draft, submit)
		require.NoError(t, err)
		assert.Equal(t, review, next)

		next, err = table.Next(next, approve)
		require.NoError(t, err)
		assert.Equal(t, published, next)
	})

	t.Run("unknown pair is reported", func(t *testing.T) {
		_, err := table.Next(published, submit)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Contains(t, err.Error(), "published")
		assert.False(t, table.CanFire(published, submit))
	})

	t.Run("terminal states have no events", func(t *testing.T) {
		assert.True(t, table.IsTerminal(published))
		assert.False(t, table.IsTerminal(draft))
	})
}

func TestTable_Guards(t *testing.T) {
	t.Parallel()

	allow := false
	table := statemachine.MustNew(
		statemachine.WithTransition(draft, submit, review,
			statemachine.WithGuard(func(state, event) bool { return allow }),
		),
		statemachine.WithTransition(draft, submit, draft),
	)

	next, err := table.Next(draft, submit)
	require.NoError(t, err)
	assert.Equal(t, draft, next, "falls through to the unguarded transition")

	allow = true
	next, err = table.Next(draft, submit)
	require.NoError(t, err)
	assert.Equal(t, review, next)
}

func TestTable_RejectedByGuard(t *testing.T) {
	t.Parallel()

	table := statemachine.MustNew(
		statemachine.WithTransition(draft, submit, review,
			statemachine.WithGuard(func(state, event) bool { return false }),
		),
	)

	_, err := table.Next(draft, submit)
	assert.True(t, statemachine.IsTransitionRejectedError(err))
}

func TestNew_DuplicateTransition(t *testing.T) {
	t.Parallel()

	_, err := statemachine.New(
		statemachine.WithTransition(draft, submit, review),
		statemachine.WithTransition(draft, submit, review),
	)
	require.ErrorIs(t, err, statemachine.ErrDuplicateTransition)

	assert.Panics(t, func() {
		statemachine.MustNew(
			statemachine.WithTransition(draft, submit, review),
			statemachine.WithTransition(draft, submit, review),
		)
	})
}
