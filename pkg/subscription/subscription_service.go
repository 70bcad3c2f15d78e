package subscription

import (
	"context"
	"errors"

	"Go-Recipe-Backend/domain"
	"Go-Recipe-Backend/entities"
	"Go-Recipe-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, subscriberID, authorID string, recipesLimit int) (domain.ProfileWithRecipes, error)
		Unsubscribe(ctx context.Context, subscriberID, authorID string) error
		GetSubscriptions(ctx context.Context, subscriberID string, page, limit, recipesLimit int) (domain.SubscriptionListResponse, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
	}
)

func NewSubscriptionService(subscriptionRepository SubscriptionRepository, userRepository user.UserRepository) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID, authorID string, recipesLimit int) (domain.ProfileWithRecipes, error) {
	if subscriberID == authorID {
		return domain.ProfileWithRecipes{}, domain.ErrSelfSubscribe
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileWithRecipes{}, domain.ErrUserNotFound
		}
		return domain.ProfileWithRecipes{}, err
	}

	exists, err := s.subscriptionRepository.IsSubscribed(ctx, subscriberID, authorID)
	if err != nil {
		return domain.ProfileWithRecipes{}, err
	}
	if exists {
		return domain.ProfileWithRecipes{}, domain.ErrAlreadySubscribed
	}

	subscriberUUID, err := uuid.Parse(subscriberID)
	if err != nil {
		return domain.ProfileWithRecipes{}, domain.ErrParseUUID
	}

	subscription := entities.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberUUID,
		AuthorID:     author.ID,
	}
	if err := s.subscriptionRepository.CreateSubscription(ctx, &subscription); err != nil {
		return domain.ProfileWithRecipes{}, err
	}

	return s.profileWithRecipes(ctx, author, recipesLimit)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID string) error {
	affected, err := s.subscriptionRepository.DeleteSubscription(ctx, subscriberID, authorID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotSubscribed
	}
	return nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, subscriberID string, page, limit, recipesLimit int) (domain.SubscriptionListResponse, error) {
	authors, count, err := s.subscriptionRepository.GetSubscribedAuthors(ctx, subscriberID, page, limit)
	if err != nil {
		return domain.SubscriptionListResponse{}, err
	}

	results := make([]domain.ProfileWithRecipes, 0, len(authors))
	for _, author := range authors {
		profile, err := s.profileWithRecipes(ctx, author, recipesLimit)
		if err != nil {
			return domain.SubscriptionListResponse{}, err
		}
		results = append(results, profile)
	}

	return domain.SubscriptionListResponse{
		Results: results,
		Total:   count,
	}, nil
}

func (s *subscriptionService) profileWithRecipes(ctx context.Context, author *entities.User, recipesLimit int) (domain.ProfileWithRecipes, error) {
	recipes, count, err := s.subscriptionRepository.GetAuthorRecipes(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.ProfileWithRecipes{}, err
	}

	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, domain.RecipeSummary{
			ID:          recipe.ID.String(),
			Name:        recipe.Name,
			ImageURL:    recipe.ImageURL,
			CookingTime: recipe.CookingTime,
		})
	}

	return domain.ProfileWithRecipes{
		UserProfile: domain.UserProfile{
			ID:           author.ID.String(),
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: true,
			RecipesCount: count,
		},
		Recipes: summaries,
	}, nil
}
