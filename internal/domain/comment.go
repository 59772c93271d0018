package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Comment struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	DiscussionID uuid.UUID                   `gorm:"type:uuid;index;not null"`
	AuthorID     uuid.UUID                   `gorm:"type:uuid;index"`
	ParentID     *uuid.UUID                  `gorm:"type:uuid;index"`
	Sections     datatypes.JSONSlice[Section]
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CommentAuthor is the author projection shown next to posts.
type CommentAuthor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
}

// CommentNode is a comment as served to clients, with its replies nested.
type CommentNode struct {
	ID           uuid.UUID      `json:"id"`
	DiscussionID uuid.UUID      `json:"discussionId"`
	ParentID     *uuid.UUID     `json:"parentId"`
	Author       CommentAuthor  `json:"author"`
	Sections     []Section      `json:"sections"`
	Likes        []uuid.UUID    `json:"likes"`
	Dislikes     []uuid.UUID    `json:"dislikes"`
	CreatedAt    time.Time      `json:"createdAt"`
	Replies      []*CommentNode `json:"replies"`
}

// BuildCommentTree nests a flat list of comments under their parents and returns
// the roots in input order. A comment whose parent is not in the list is a root.
func BuildCommentTree(flat []*CommentNode) []*CommentNode {
	byID := make(map[uuid.UUID]*CommentNode, len(flat))
	for _, c := range flat {
		c.Replies = []*CommentNode{}
		byID[c.ID] = c
	}

	roots := make([]*CommentNode, 0)
	for _, c := range flat {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// CommentEdge is the minimal shape needed to walk a thread.
type CommentEdge struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
}

// DeleteOrder returns target and all of its transitive replies in post-order:
// every reply comes before the comment it answers, target comes last.
func DeleteOrder(target uuid.UUID, edges []CommentEdge) []uuid.UUID {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, e := range edges {
		if e.ParentID != nil && *e.ParentID != e.ID {
			children[*e.ParentID] = append(children[*e.ParentID], e.ID)
		}
	}

	type frame struct {
		id       uuid.UUID
		expanded bool
	}
	seen := map[uuid.UUID]bool{target: true}
	stack := []frame{{id: target}}
	var order []uuid.UUID

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.expanded {
			order = append(order, f.id)
			continue
		}
		stack = append(stack, frame{id: f.id, expanded: true})
		kids := children[f.id]
		for i := len(kids) - 1; i >= 0; i-- {
			if seen[kids[i]] {
				continue
			}
			seen[kids[i]] = true
			stack = append(stack, frame{id: kids[i]})
		}
	}
	return order
}
