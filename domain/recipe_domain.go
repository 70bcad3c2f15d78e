package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes           = "success get recipes"
	MessageSuccessGetRecipeDetail      = "success get recipe detail"
	MessageSuccessCreateRecipe         = "recipe created successfully"
	MessageSuccessUpdateRecipe         = "recipe updated successfully"
	MessageSuccessDeleteRecipe         = "recipe deleted successfully"
	MessageSuccessUploadRecipeImage    = "recipe image uploaded successfully"
	MessageSuccessAddFavorite          = "recipe added to favorites"
	MessageSuccessRemoveFavorite       = "recipe removed from favorites"
	MessageSuccessGetFavorites         = "success get favorite recipes"
	MessageSuccessAddToCart            = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart       = "recipe removed from shopping cart"
	MessageSuccessDownloadShoppingCart = "shopping list generated"

	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedUploadRecipeImage    = "failed to upload recipe image"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedGetFavorites         = "failed to get favorite recipes"
	MessageFailedAddToCart            = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart       = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingCart = "failed to generate shopping list"

	ErrRecipeNotFound = errors.New("recipe not found")

	ErrNoIngredients       = ValidationError{Field: "ingredients", Message: "at least one ingredient required"}
	ErrAmountNotPositive   = ValidationError{Field: "ingredients", Message: "amount must be greater than 0"}
	ErrDuplicateIngredient = ValidationError{Field: "ingredients", Message: "duplicate ingredient in recipe"}

	ErrAlreadyFavorited = ValidationError{Field: "recipe", Message: "already exists"}
	ErrNotFavorited     = ValidationError{Field: "recipe", Message: "does not exist"}
	ErrAlreadyInCart    = ValidationError{Field: "recipe", Message: "already exists"}
	ErrNotInCart        = ValidationError{Field: "recipe", Message: "does not exist"}
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount"`
	}

	SaveRecipeRequest struct {
		Name        string                    `json:"name" validate:"required,max=200"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"omitempty,min=1"`
		ImageURL    string                    `json:"image_url" validate:"omitempty,url"`
		Ingredients []RecipeIngredientRequest `json:"ingredients"`
		TagIDs      []string                  `json:"tags" validate:"omitempty,dive,uuid"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Author           *UserProfile               `json:"author,omitempty"`
		Name             string                     `json:"name"`
		Text             string                     `json:"text"`
		ImageURL         string                     `json:"image_url,omitempty"`
		CookingTime      int                        `json:"cooking_time"`
		Tags             []TagResponse              `json:"tags"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		CreatedAt        time.Time                  `json:"created_at"`
	}

	// RecipeSummary is the lightweight view returned by the favorite and
	// shopping cart toggles.
	RecipeSummary struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image_url,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeFilter struct {
		AuthorID string
		TagSlugs []string
	}

	UploadRecipeImageRequest struct {
		RecipeID string                `json:"recipe_id" form:"recipe_id" validate:"required,uuid"`
		Image    *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	ShoppingListFile struct {
		FileName string `json:"file_name"`
		Content  string `json:"content"`
	}
)
