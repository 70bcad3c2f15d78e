package recipe

import (
	"context"

	"Go-Recipe-Backend/entities"

	"gorm.io/gorm"
)

type (
	// ShoppingListRow is one aggregated line of a user's shopping list:
	// ingredient lines across the cart grouped by (name, unit) with
	// amounts summed.
	ShoppingListRow struct {
		Name            string
		MeasurementUnit string
		Total           int
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tags []*entities.Tag) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tags []*entities.Tag) error
		DeleteRecipe(ctx context.Context, id string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, authorID string, tagSlugs []string, page, limit int) ([]*entities.Recipe, int64, error)
		UpdateRecipeImage(ctx context.Context, id, imageURL string) error

		IsFavorited(ctx context.Context, userID, recipeID string) (bool, error)
		AddFavorite(ctx context.Context, favorite *entities.Favorite) error
		RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error)
		GetFavoriteRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error)

		IsInCart(ctx context.Context, userID, recipeID string) (bool, error)
		AddCartEntry(ctx context.Context, entry *entities.ShoppingCartEntry) error
		RemoveCartEntry(ctx context.Context, userID, recipeID string) (int64, error)
		GetShoppingList(ctx context.Context, userID string) ([]ShoppingListRow, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tags []*entities.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients", "Tags").Create(recipe).Error; err != nil {
			return err
		}

		for _, line := range lines {
			line.RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		if len(tags) > 0 {
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, lines []*entities.RecipeIngredient, tags []*entities.Tag) error {
	// Ingredient lines and tags are replaced wholesale, never merged. The
	// whole sequence runs in one transaction so readers never observe a
	// recipe without its lines.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}

		for _, line := range lines {
			line.RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Model(recipe).
			Select("name", "text", "image_url", "cooking_time").
			Updates(recipe).Error
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, authorID string, tagSlugs []string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recipe{})
	if authorID != "" {
		query = query.Where("recipes.author_id = ?", authorID)
	}
	if len(tagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", tagSlugs).
			Distinct("recipes.*")
	}

	if err := query.Session(&gorm.Session{}).Distinct("recipes.id").Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) UpdateRecipeImage(ctx context.Context, id, imageURL string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("image_url", imageURL).Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) AddFavorite(ctx context.Context, favorite *entities.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *recipeRepository) RemoveFavorite(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) GetFavoriteRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Joins("JOIN favorites ON recipes.id = favorites.recipe_id").
		Where("favorites.user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON recipes.id = favorites.recipe_id").
		Where("favorites.user_id = ?", userID).
		Offset(offset).
		Limit(limit).
		Order("favorites.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) IsInCart(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) AddCartEntry(ctx context.Context, entry *entities.ShoppingCartEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *recipeRepository) RemoveCartEntry(ctx context.Context, userID, recipeID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCartEntry{})
	return res.RowsAffected, res.Error
}

func (r *recipeRepository) GetShoppingList(ctx context.Context, userID string) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_entries ON shopping_cart_entries.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
