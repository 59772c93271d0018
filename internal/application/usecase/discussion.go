package usecase

import (
	"context"
	"strings"

	"lmsplatform/internal/domain"
	"lmsplatform/internal/infrastructure/repository"
	"lmsplatform/internal/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DiscussionUseCase struct {
	discussionRepo *repository.DiscussionRepository
	reactionRepo   *repository.ReactionRepository
	userRepo       *repository.UserRepository
	log            *logger.Logger
}

func NewDiscussionUseCase(
	dr *repository.DiscussionRepository,
	rr *repository.ReactionRepository,
	ur *repository.UserRepository,
	log *logger.Logger,
) *DiscussionUseCase {
	return &DiscussionUseCase{discussionRepo: dr, reactionRepo: rr, userRepo: ur, log: log.With("usecase", "discussion")}
}

func (uc *DiscussionUseCase) Create(ctx context.Context, s domain.Session, title string, sections []domain.Section) (*domain.Discussion, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid("title", "is required")
	}
	if err := domain.ValidateSections(sections); err != nil {
		return nil, err
	}
	d := &domain.Discussion{
		ID:       uuid.New(),
		Title:    title,
		AuthorID: s.UserID,
		Sections: datatypes.NewJSONSlice(nonNilSections(sections)),
	}
	if err := uc.discussionRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	if err := uc.decorate(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// List returns all discussions newest first, with authors and reactions.
func (uc *DiscussionUseCase) List(ctx context.Context) ([]domain.Discussion, error) {
	list, err := uc.discussionRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*domain.Discussion, len(list))
	for i := range list {
		ptrs[i] = &list[i]
	}
	if err := uc.decorate(ctx, ptrs...); err != nil {
		return nil, err
	}
	return list, nil
}

func (uc *DiscussionUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Discussion, error) {
	d, err := uc.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.decorate(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update lets the author change title and sections; nil/empty keeps the current value.
func (uc *DiscussionUseCase) Update(ctx context.Context, s domain.Session, id uuid.UUID, title string, sections []domain.Section) (*domain.Discussion, error) {
	d, err := uc.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.AuthorID != s.UserID {
		return nil, domain.ErrForbidden
	}
	if t := strings.TrimSpace(title); t != "" {
		d.Title = t
	}
	if sections != nil {
		if err := domain.ValidateSections(sections); err != nil {
			return nil, err
		}
		d.Sections = datatypes.NewJSONSlice(sections)
	}
	if err := uc.discussionRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	if err := uc.decorate(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes the discussion and its whole comment thread. Author only.
func (uc *DiscussionUseCase) Delete(ctx context.Context, s domain.Session, id uuid.UUID) error {
	d, err := uc.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.AuthorID != s.UserID {
		return domain.ErrForbidden
	}
	if err := uc.discussionRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info("discussion deleted", "discussion_id", id)
	return nil
}

// React records a like or dislike. Repeating the same reaction changes nothing;
// the opposite one replaces it.
func (uc *DiscussionUseCase) React(ctx context.Context, s domain.Session, id uuid.UUID, kind domain.ReactionKind) (*domain.Discussion, error) {
	d, err := uc.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_, err = uc.reactionRepo.React(ctx, domain.TargetDiscussion, id, s.UserID, func(cur domain.ReactionKind) domain.ReactionKind {
		return domain.SetReaction(cur, kind)
	})
	if err != nil {
		return nil, err
	}
	if err := uc.decorate(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *DiscussionUseCase) decorate(ctx context.Context, ds ...*domain.Discussion) error {
	if len(ds) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(ds))
	authorIDs := make([]uuid.UUID, 0, len(ds))
	for _, d := range ds {
		ids = append(ids, d.ID)
		authorIDs = append(authorIDs, d.AuthorID)
	}
	authors, err := uc.userRepo.Summaries(ctx, authorIDs)
	if err != nil {
		return err
	}
	reactions, err := uc.reactionRepo.ForTargets(ctx, domain.TargetDiscussion, ids)
	if err != nil {
		return err
	}
	for _, d := range ds {
		a := authorOf(authors, d.AuthorID)
		d.Author = &a
		d.Likes = reactions[d.ID].Likes
		d.Dislikes = reactions[d.ID].Dislikes
		if d.Sections == nil {
			d.Sections = datatypes.JSONSlice[domain.Section]{}
		}
	}
	return nil
}

func authorOf(users map[uuid.UUID]domain.UserSummary, id uuid.UUID) domain.CommentAuthor {
	u, ok := users[id]
	if !ok {
		return domain.CommentAuthor{ID: id}
	}
	return domain.CommentAuthor{ID: u.ID, DisplayName: u.Name, AvatarURL: u.Avatar}
}

func nonNilSections(s []domain.Section) []domain.Section {
	if s == nil {
		return []domain.Section{}
	}
	return s
}
