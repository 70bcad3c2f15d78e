package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Go-Recipe-Backend/domain"
	"Go-Recipe-Backend/entities"
	"Go-Recipe-Backend/internal/utils/storage"
	"Go-Recipe-Backend/pkg/catalog"
	"Go-Recipe-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const shoppingListHeader = "Shopping list"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.SaveRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, req domain.SaveRecipeRequest, recipeID, userID, role string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID, role string) error
		GetRecipeDetail(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error)
		UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest, userID, role string) (string, error)

		AddFavorite(ctx context.Context, recipeID, userID string) (domain.RecipeSummary, error)
		RemoveFavorite(ctx context.Context, recipeID, userID string) error
		GetFavoriteRecipes(ctx context.Context, page, limit int, userID string) ([]domain.RecipeSummary, int64, error)

		AddToCart(ctx context.Context, recipeID, userID string) (domain.RecipeSummary, error)
		RemoveFromCart(ctx context.Context, recipeID, userID string) error
		DownloadShoppingCart(ctx context.Context, userID string) (domain.ShoppingListFile, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		userRepository    user.UserRepository
		s3                storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		userRepository:    userRepository,
		s3:                s3,
	}
}

// validateIngredientLines checks the payload in a fixed order: the list must
// be non-empty, every amount positive, and no ingredient may repeat. The
// first failure wins.
func validateIngredientLines(lines []domain.RecipeIngredientRequest) error {
	if len(lines) == 0 {
		return domain.ErrNoIngredients
	}
	for _, line := range lines {
		if line.Amount <= 0 {
			return domain.ErrAmountNotPositive
		}
	}
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ID]; ok {
			return domain.ErrDuplicateIngredient
		}
		seen[line.ID] = struct{}{}
	}
	return nil
}

func (s *recipeService) resolveRelations(ctx context.Context, req domain.SaveRecipeRequest) ([]*entities.RecipeIngredient, []*entities.Tag, error) {
	ids := make([]string, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ids = append(ids, line.ID)
	}

	ingredients, err := s.catalogRepository.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, nil, domain.ErrIngredientNotFound
	}

	lines := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ingredientID, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		lines = append(lines, &entities.RecipeIngredient{
			ID:           uuid.New(),
			IngredientID: ingredientID,
			Amount:       line.Amount,
		})
	}

	tags := make([]*entities.Tag, 0, len(req.TagIDs))
	if len(req.TagIDs) > 0 {
		tags, err = s.catalogRepository.GetTagsByIDs(ctx, req.TagIDs)
		if err != nil {
			return nil, nil, err
		}
		if len(tags) != len(req.TagIDs) {
			return nil, nil, domain.ErrTagNotFound
		}
	}

	return lines, tags, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.SaveRecipeRequest, userID string) (domain.RecipeResponse, error) {
	if err := validateIngredientLines(req.Ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	lines, tags, err := s.resolveRelations(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	cookingTime := req.CookingTime
	if cookingTime == 0 {
		cookingTime = 1
	}

	recipe := entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    &authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		CookingTime: cookingTime,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, &recipe, lines, tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, req domain.SaveRecipeRequest, recipeID, userID, role string) (domain.RecipeResponse, error) {
	if err := validateIngredientLines(req.Ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if !canModify(recipe, userID, role) {
		return domain.RecipeResponse{}, domain.ErrUserNotAllowed
	}

	lines, tags, err := s.resolveRelations(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	if req.ImageURL != "" {
		recipe.ImageURL = req.ImageURL
	}
	if req.CookingTime > 0 {
		recipe.CookingTime = req.CookingTime
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, lines, tags); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID, role string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if !canModify(recipe, userID, role) {
		return domain.ErrUserNotAllowed
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}
	return nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.recipeResponse(ctx, recipe, viewerID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int, viewerID string) ([]domain.RecipeResponse, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter.AuthorID, filter.TagSlugs, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := s.recipeResponse(ctx, recipe, viewerID)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, view)
	}
	return res, count, nil
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, req domain.UploadRecipeImageRequest, userID, role string) (string, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRecipeNotFound
		}
		return "", err
	}

	if !canModify(recipe, userID, role) {
		return "", domain.ErrUserNotAllowed
	}

	var objectKey string
	if recipe.ImageURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(recipe.ImageURL)
		objectKey, err = s.s3.UpdateFile(existingKey, req.Image, storage.AllowImage...)
	} else {
		objectKey, err = s.s3.UploadFile(recipe.ID.String(), req.Image, "recipes", storage.AllowImage...)
	}
	if err != nil {
		return "", err
	}

	imageURL := s.s3.GetPublicLinkKey(objectKey)
	if err := s.recipeRepository.UpdateRecipeImage(ctx, req.RecipeID, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID, userID string) (domain.RecipeSummary, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeSummary{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeSummary{}, err
	}

	exists, err := s.recipeRepository.IsFavorited(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, err
	}
	if exists {
		return domain.RecipeSummary{}, domain.ErrAlreadyFavorited
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeSummary{}, domain.ErrParseUUID
	}

	favorite := entities.Favorite{
		ID:        uuid.New(),
		UserID:    userUUID,
		RecipeID:  recipe.ID,
		CreatedAt: time.Now(),
	}
	if err := s.recipeRepository.AddFavorite(ctx, &favorite); err != nil {
		return domain.RecipeSummary{}, err
	}

	return recipeSummary(recipe), nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID, userID string) error {
	affected, err := s.recipeRepository.RemoveFavorite(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFavorited
	}
	return nil
}

func (s *recipeService) GetFavoriteRecipes(ctx context.Context, page, limit int, userID string) ([]domain.RecipeSummary, int64, error) {
	recipes, count, err := s.recipeRepository.GetFavoriteRecipes(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, recipeSummary(recipe))
	}
	return res, count, nil
}

func (s *recipeService) AddToCart(ctx context.Context, recipeID, userID string) (domain.RecipeSummary, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeSummary{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeSummary{}, err
	}

	exists, err := s.recipeRepository.IsInCart(ctx, userID, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, err
	}
	if exists {
		return domain.RecipeSummary{}, domain.ErrAlreadyInCart
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeSummary{}, domain.ErrParseUUID
	}

	entry := entities.ShoppingCartEntry{
		ID:        uuid.New(),
		UserID:    userUUID,
		RecipeID:  recipe.ID,
		CreatedAt: time.Now(),
	}
	if err := s.recipeRepository.AddCartEntry(ctx, &entry); err != nil {
		return domain.RecipeSummary{}, err
	}

	return recipeSummary(recipe), nil
}

func (s *recipeService) RemoveFromCart(ctx context.Context, recipeID, userID string) error {
	affected, err := s.recipeRepository.RemoveCartEntry(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotInCart
	}
	return nil
}

// DownloadShoppingCart renders the consolidated shopping list for every
// recipe in the caller's cart. Amounts are summed per (name, unit) group; an
// ingredient name carried with two different unit strings yields two lines.
func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string) (domain.ShoppingListFile, error) {
	caller, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShoppingListFile{}, domain.ErrUserNotFound
		}
		return domain.ShoppingListFile{}, err
	}

	rows, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return domain.ShoppingListFile{}, err
	}

	var b strings.Builder
	b.WriteString(shoppingListHeader + "\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s - %d %s\n", row.Name, row.Total, row.MeasurementUnit)
	}

	return domain.ShoppingListFile{
		FileName: fmt.Sprintf("%s_shopping_list.txt", caller.Username),
		Content:  b.String(),
	}, nil
}

func (s *recipeService) recipeResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Text:        recipe.Text,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
		CreatedAt:   recipe.CreatedAt,
		Tags:        make([]domain.TagResponse, 0, len(recipe.Tags)),
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(recipe.Ingredients)),
	}

	for _, tag := range recipe.Tags {
		res.Tags = append(res.Tags, domain.TagResponse{
			ID:    tag.ID.String(),
			Name:  tag.Name,
			Color: tag.Color,
			Slug:  tag.Slug,
		})
	}

	for _, line := range recipe.Ingredients {
		view := domain.RecipeIngredientResponse{
			ID:     line.IngredientID.String(),
			Amount: line.Amount,
		}
		if line.Ingredient != nil {
			view.Name = line.Ingredient.Name
			view.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		res.Ingredients = append(res.Ingredients, view)
	}

	if recipe.Author != nil {
		author := domain.UserProfile{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
		}
		if viewerID != "" && viewerID != author.ID {
			subscribed, err := s.userRepository.IsSubscribed(ctx, viewerID, author.ID)
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			author.IsSubscribed = subscribed
		}
		res.Author = &author
	}

	if viewerID != "" {
		favorited, err := s.recipeRepository.IsFavorited(ctx, viewerID, res.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsFavorited = favorited

		inCart, err := s.recipeRepository.IsInCart(ctx, viewerID, res.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsInShoppingCart = inCart
	}

	return res, nil
}

func canModify(recipe *entities.Recipe, userID, role string) bool {
	if entities.Role(role) == entities.RoleAdmin {
		return true
	}
	return recipe.AuthorID != nil && recipe.AuthorID.String() == userID
}

func recipeSummary(recipe *entities.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
