package usecase

import (
	"context"
	"errors"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CommentUseCase struct {
	commentRepo    *repository.CommentRepository
	discussionRepo *repository.DiscussionRepository
	reactionRepo   *repository.ReactionRepository
	userRepo       *repository.UserRepository
	log            *logger.Logger
}

func NewCommentUseCase(
	cr *repository.CommentRepository,
	dr *repository.DiscussionRepository,
	rr *repository.ReactionRepository,
	ur *repository.UserRepository,
	log *logger.Logger,
) *CommentUseCase {
	return &CommentUseCase{commentRepo: cr, discussionRepo: dr, reactionRepo: rr, userRepo: ur, log: log.With("usecase", "comment")}
}

// Create adds a root comment or, with parentID, a reply to a comment of the same discussion.
func (uc *CommentUseCase) Create(ctx context.Context, s domain.Session, discussionID uuid.UUID, parentID *uuid.UUID, sections []domain.Section) (*domain.CommentNode, error) {
	if err := domain.ValidateSections(sections); err != nil {
		return nil, err
	}
	if _, err := uc.discussionRepo.GetByID(ctx, discussionID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := uc.commentRepo.GetByID(ctx, *parentID)
		if errors.Is(err, domain.ErrCommentNotFound) {
			return nil, domain.Invalid("parentId", "does not exist")
		}
		if err != nil {
			return nil, err
		}
		if parent.DiscussionID != discussionID {
			return nil, domain.Invalid("parentId", "belongs to another discussion")
		}
	}

	c := &domain.Comment{
		ID:           uuid.New(),
		DiscussionID: discussionID,
		AuthorID:     s.UserID,
		ParentID:     parentID,
		Sections:     datatypes.NewJSONSlice(nonNilSections(sections)),
	}
	if err := uc.commentRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	nodes, err := uc.nodes(ctx, []domain.Comment{*c})
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// Thread returns the discussion's comments as a forest of replies.
func (uc *CommentUseCase) Thread(ctx context.Context, discussionID uuid.UUID) ([]*domain.CommentNode, error) {
	comments, err := uc.commentRepo.ListByDiscussion(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	nodes, err := uc.nodes(ctx, comments)
	if err != nil {
		return nil, err
	}
	return domain.BuildCommentTree(nodes), nil
}

func (uc *CommentUseCase) Edit(ctx context.Context, s domain.Session, id uuid.UUID, sections []domain.Section) (*domain.CommentNode, error) {
	c, err := uc.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.AuthorID != s.UserID {
		return nil, domain.ErrForbidden
	}
	if err := domain.ValidateSections(sections); err != nil {
		return nil, err
	}
	sections = nonNilSections(sections)
	if err := uc.commentRepo.UpdateSections(ctx, id, sections); err != nil {
		return nil, err
	}
	c.Sections = datatypes.NewJSONSlice(sections)
	nodes, err := uc.nodes(ctx, []domain.Comment{*c})
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// Delete removes the comment and every reply below it. Allowed to the comment's
// author and to the author of the discussion.
func (uc *CommentUseCase) Delete(ctx context.Context, s domain.Session, id uuid.UUID) error {
	c, err := uc.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != s.UserID {
		d, err := uc.discussionRepo.GetByID(ctx, c.DiscussionID)
		if err != nil {
			return err
		}
		if d.AuthorID != s.UserID {
			return domain.ErrForbidden
		}
	}

	edges, err := uc.commentRepo.Edges(ctx, c.DiscussionID)
	if err != nil {
		return err
	}
	order := domain.DeleteOrder(c.ID, edges)
	if err := uc.commentRepo.DeleteInOrder(ctx, order); err != nil {
		return err
	}
	uc.log.Info("comment deleted", "comment_id", id, "removed", len(order))
	return nil
}

// React toggles a like or dislike of the caller on the comment.
func (uc *CommentUseCase) React(ctx context.Context, s domain.Session, id uuid.UUID, kind domain.ReactionKind) (*domain.CommentNode, error) {
	c, err := uc.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = uc.reactionRepo.React(ctx, domain.TargetComment, id, s.UserID, func(cur domain.ReactionKind) domain.ReactionKind {
		return domain.ToggleReaction(cur, kind)
	})
	if err != nil {
		return nil, err
	}
	nodes, err := uc.nodes(ctx, []domain.Comment{*c})
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

// nodes projects comments with their authors and reactions, two queries in total.
func (uc *CommentUseCase) nodes(ctx context.Context, comments []domain.Comment) ([]*domain.CommentNode, error) {
	ids := make([]uuid.UUID, 0, len(comments))
	authorIDs := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		authorIDs = append(authorIDs, c.AuthorID)
	}
	authors, err := uc.userRepo.Summaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	reactions, err := uc.reactionRepo.ForTargets(ctx, domain.TargetComment, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.CommentNode, 0, len(comments))
	for _, c := range comments {
		r := reactions[c.ID]
		out = append(out, &domain.CommentNode{
			ID:           c.ID,
			DiscussionID: c.DiscussionID,
			ParentID:     c.ParentID,
			Author:       authorOf(authors, c.AuthorID),
			Sections:     nonNilSections(c.Sections),
			Likes:        r.Likes,
			Dislikes:     r.Dislikes,
			CreatedAt:    c.CreatedAt,
			Replies:      []*domain.CommentNode{},
		})
	}
	return out, nil
}
