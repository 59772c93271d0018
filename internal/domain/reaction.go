package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReactionKind string

const (
	ReactionNone    ReactionKind = ""
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

type TargetType string

const (
	TargetComment    TargetType = "comment"
	TargetDiscussion TargetType = "discussion"
)

// Reaction is keyed by (target, user), so a user holds at most one of like/dislike.
type Reaction struct {
	TargetType TargetType   `gorm:"type:varchar(16);primaryKey"`
	TargetID   uuid.UUID    `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Kind       ReactionKind `gorm:"type:varchar(8);not null"`
	CreatedAt  time.Time
}

// ToggleReaction applies a click: the opposite reaction is dropped and the
// clicked one is flipped, so clicking the same button twice clears it.
func ToggleReaction(current, clicked ReactionKind) ReactionKind {
	if current == clicked {
		return ReactionNone
	}
	return clicked
}

// SetReaction switches to the clicked reaction; repeating it is a no-op.
func SetReaction(_, clicked ReactionKind) ReactionKind {
	return clicked
}

// Reactions groups user ids per kind.
type Reactions struct {
	Likes    []uuid.UUID
	Dislikes []uuid.UUID
}

func GroupReactions(rs []Reaction) map[uuid.UUID]*Reactions {
	out := make(map[uuid.UUID]*Reactions)
	for _, r := range rs {
		g, ok := out[r.TargetID]
		if !ok {
			g = &Reactions{Likes: []uuid.UUID{}, Dislikes: []uuid.UUID{}}
			out[r.TargetID] = g
		}
		switch r.Kind {
		case ReactionLike:
			g.Likes = append(g.Likes, r.UserID)
		case ReactionDislike:
			g.Dislikes = append(g.Dislikes, r.UserID)
		}
	}
	return out
}
