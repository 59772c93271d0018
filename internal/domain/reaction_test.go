package domain

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToggleReaction(t *testing.T) {
	cases := []struct {
		current, clicked, want ReactionKind
	}{
		{ReactionNone, ReactionLike, ReactionLike},
		{ReactionLike, ReactionLike, ReactionNone},
		{ReactionDislike, ReactionLike, ReactionLike},
		{ReactionNone, ReactionDislike, ReactionDislike},
		{ReactionDislike, ReactionDislike, ReactionNone},
		{ReactionLike, ReactionDislike, ReactionDislike},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ToggleReaction(c.current, c.clicked), "%q + %q", c.current, c.clicked)
	}
}

func TestSetReactionIsIdempotent(t *testing.T) {
	assert.Equal(t, ReactionLike, SetReaction(ReactionLike, ReactionLike))
	assert.Equal(t, ReactionDislike, SetReaction(ReactionLike, ReactionDislike))
}

func TestGroupReactionsNeverListsUserTwice(t *testing.T) {
	target, user := uuid.New(), uuid.New()
	rng := rand.New(rand.NewSource(7))

	state := ReactionNone
	for i := 0; i < 200; i++ {
		clicked := ReactionLike
		if rng.Intn(2) == 1 {
			clicked = ReactionDislike
		}
		state = ToggleReaction(state, clicked)

		var rows []Reaction
		if state != ReactionNone {
			rows = append(rows, Reaction{TargetType: TargetComment, TargetID: target, UserID: user, Kind: state})
		}
		g := GroupReactions(rows)[target]
		if g == nil {
			continue
		}
		assert.LessOrEqual(t, len(g.Likes)+len(g.Dislikes), 1)
	}
}
