package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/foodgram/internal/models"
	"github.com/Skotchmaster/foodgram/internal/mykafka"
	"github.com/Skotchmaster/foodgram/internal/repo"
	"github.com/Skotchmaster/foodgram/internal/transport"
	pkg_hash "github.com/Skotchmaster/foodgram/pkg/hash"
	"github.com/Skotchmaster/foodgram/pkg/logging"
	middleware "github.com/Skotchmaster/foodgram/pkg/middleware/auth"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func toUserResponse(u models.User, subscribed bool) transport.UserResponse {
	return transport.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*transport.UserResponse, error) {
	l := logging.FromContext(ctx).With("svc", "users.register")

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := transport.Validate(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         middleware.RoleUser,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, fmt.Errorf("%w: email or username is taken", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	l.Info("register_success", "user_id", user.ID)
	publish(ctx, s.Events, mykafka.TopicUserEvents, "user_registered", user.ID, uuid.Nil)
	resp := toUserResponse(user, false)
	return &resp, nil
}

// subscribedFlags reports which authors viewer follows; anonymous viewers follow nobody.
func (s *UserService) subscribedFlags(ctx context.Context, viewer uuid.UUID, users []models.User) (map[uuid.UUID]bool, error) {
	if viewer == uuid.Nil {
		return map[uuid.UUID]bool{}, nil
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.Repo.SubscribedTo(ctx, viewer, ids)
}

func (s *UserService) List(ctx context.Context, viewer uuid.UUID, offset, limit int) (int64, []transport.UserResponse, error) {
	total, users, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	flags, err := s.subscribedFlags(ctx, viewer, users)
	if err != nil {
		return 0, nil, err
	}
	out := make([]transport.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u, flags[u.ID]))
	}
	return total, out, nil
}

func (s *UserService) Get(ctx context.Context, viewer, id uuid.UUID) (*transport.UserResponse, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	flags, err := s.subscribedFlags(ctx, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(*user, flags[user.ID])
	return &resp, nil
}

func (s *UserService) SetPassword(ctx context.Context, userID uuid.UUID, req transport.SetPasswordRequest) error {
	if err := transport.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("%w: current password does not match", ErrValidation)
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.Repo.SetPassword(ctx, userID, string(hash))
}

// hashPassword reports bcrypt's byte limit as a validation failure; the
// DTO length check counts runes, not bytes.
func hashPassword(password string) (string, error) {
	hash, err := pkg_hash.HashPassword(password)
	if errors.Is(err, pkg_hash.ErrTooLong) {
		return "", fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *UserService) subscriptionView(ctx context.Context, author models.User, recipesLimit int) (*transport.SubscriptionResponse, error) {
	recipes, err := s.Repo.ListRecipesByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.Repo.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	short := make([]transport.RecipeShortResponse, 0, len(recipes))
	for _, r := range recipes {
		short = append(short, toRecipeShort(r))
	}
	return &transport.SubscriptionResponse{
		UserResponse: toUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

// Subscribe makes userID follow authorID. recipesLimit <= 0 returns every recipe.
func (s *UserService) Subscribe(ctx context.Context, userID, authorID uuid.UUID, recipesLimit int) (*transport.SubscriptionResponse, error) {
	author, err := s.Repo.GetUserByID(ctx, authorID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("author %s: %w", authorID, ErrNotFound)
		}
		return nil, err
	}
	if userID == authorID {
		return nil, ErrSelfSubscription
	}

	if _, err := s.Repo.Subscribe(ctx, userID, authorID); err != nil {
		return nil, membershipErr(err, "subscription")
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, "subscribed", userID, authorID)
	return s.subscriptionView(ctx, *author, recipesLimit)
}

func (s *UserService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	ok, err := s.Repo.UserExists(ctx, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("author %s: %w", authorID, ErrNotFound)
	}
	if err := s.Repo.Unsubscribe(ctx, userID, authorID); err != nil {
		return membershipErr(err, "subscription")
	}
	publish(ctx, s.Events, mykafka.TopicUserEvents, "unsubscribed", userID, authorID)
	return nil
}

func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, offset, limit, recipesLimit int) (int64, []transport.SubscriptionResponse, error) {
	total, authors, err := s.Repo.ListSubscriptions(ctx, userID, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	out := make([]transport.SubscriptionResponse, 0, len(authors))
	for _, a := range authors {
		view, err := s.subscriptionView(ctx, a, recipesLimit)
		if err != nil {
			return 0, nil, err
		}
		out = append(out, *view)
	}
	return total, out, nil
}

func membershipErr(err error, what string) error {
	switch {
	case errors.Is(err, repo.ErrAlreadyMember):
		return fmt.Errorf("%s: %w", what, ErrAlreadyExists)
	case errors.Is(err, repo.ErrNotMember):
		return fmt.Errorf("%s: %w", what, ErrNotMember)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
