package recipe

import (
	"context"
	"mime/multipart"
	"strings"
	"testing"

	"Go-Recipe-Backend/domain"
	"Go-Recipe-Backend/entities"
	"Go-Recipe-Backend/pkg/catalog"
	"Go-Recipe-Backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// noopStorage satisfies the storage interface without touching S3.
type noopStorage struct{}

func (noopStorage) UploadFile(string, *multipart.FileHeader, string, ...string) (string, error) {
	return "", nil
}
func (noopStorage) UpdateFile(string, *multipart.FileHeader, ...string) (string, error) {
	return "", nil
}
func (noopStorage) DeleteFile(string) error           { return nil }
func (noopStorage) GetObjectKeyFromLink(string) string { return "" }
func (noopStorage) GetPublicLinkKey(string) string     { return "" }

func setupRecipeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCartEntry{},
	)
	require.NoError(t, err)

	return db
}

func newTestRecipeService(db *gorm.DB) RecipeService {
	return NewRecipeService(
		NewRecipeRepository(db),
		catalog.NewCatalogRepository(db),
		user.NewUserRepository(db),
		noopStorage{},
	)
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	u := &entities.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     entities.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	i := &entities.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	require.NoError(t, db.Create(i).Error)
	return i
}

func createTestTag(t *testing.T, db *gorm.DB, name, color, slug string) *entities.Tag {
	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  name,
		Color: color,
		Slug:  slug,
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func TestCreateRecipeValidation(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	flour := createTestIngredient(t, db, "flour", "g")

	t.Run("empty ingredient list", func(t *testing.T) {
		_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Bread", Text: "Bake it",
		}, author.ID.String())
		assert.ErrorIs(t, err, domain.ErrNoIngredients)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Bread", Text: "Bake it",
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: flour.ID.String(), Amount: 0},
			},
		}, author.ID.String())
		assert.ErrorIs(t, err, domain.ErrAmountNotPositive)
	})

	t.Run("duplicate ingredient", func(t *testing.T) {
		_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Bread", Text: "Bake it",
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: flour.ID.String(), Amount: 100},
				{ID: flour.ID.String(), Amount: 200},
			},
		}, author.ID.String())
		assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)
	})

	t.Run("amount checked before duplicates", func(t *testing.T) {
		_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Bread", Text: "Bake it",
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: flour.ID.String(), Amount: 100},
				{ID: flour.ID.String(), Amount: -5},
			},
		}, author.ID.String())
		assert.ErrorIs(t, err, domain.ErrAmountNotPositive)
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Bread", Text: "Bake it",
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: uuid.NewString(), Amount: 100},
			},
		}, author.ID.String())
		assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Bread", Text: "Bake it",
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: flour.ID.String(), Amount: 100},
			},
			TagIDs: []string{uuid.NewString()},
		}, author.ID.String())
		assert.ErrorIs(t, err, domain.ErrTagNotFound)
	})
}

func TestCreateRecipe(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	egg := createTestIngredient(t, db, "egg", "pcs")
	milk := createTestIngredient(t, db, "milk", "ml")
	breakfast := createTestTag(t, db, "breakfast", "#FFAA00", "breakfast")

	res, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name:        "Omelette",
		Text:        "Whisk and fry",
		CookingTime: 10,
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: egg.ID.String(), Amount: 2},
			{ID: milk.ID.String(), Amount: 100},
		},
		TagIDs: []string{breakfast.ID.String()},
	}, author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Omelette", res.Name)
	assert.Equal(t, 10, res.CookingTime)
	require.NotNil(t, res.Author)
	assert.Equal(t, "alice", res.Author.Username)
	assert.Len(t, res.Ingredients, 2)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "breakfast", res.Tags[0].Slug)

	var lineCount int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lineCount).Error)
	assert.Equal(t, int64(2), lineCount)

	t.Run("cooking time defaults to 1", func(t *testing.T) {
		res, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
			Name: "Boiled egg",
			Text: "Boil it",
			Ingredients: []domain.RecipeIngredientRequest{
				{ID: egg.ID.String(), Amount: 1},
			},
		}, author.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 1, res.CookingTime)
	})
}

func TestUpdateRecipeReplacesLines(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	flour := createTestIngredient(t, db, "flour", "g")
	sugar := createTestIngredient(t, db, "sugar", "g")
	dinner := createTestTag(t, db, "dinner", "#0000FF", "dinner")
	dessert := createTestTag(t, db, "dessert", "#FF00FF", "dessert")

	created, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Dough", Text: "Mix",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flour.ID.String(), Amount: 200},
		},
		TagIDs: []string{dinner.ID.String()},
	}, author.ID.String())
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Sweet dough", Text: "Mix well", CookingTime: 15,
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: sugar.ID.String(), Amount: 100},
		},
		TagIDs: []string{dessert.ID.String()},
	}, created.ID, author.ID.String(), string(entities.RoleUser))
	require.NoError(t, err)

	assert.Equal(t, "Sweet dough", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "sugar", updated.Ingredients[0].Name)
	assert.Equal(t, 100, updated.Ingredients[0].Amount)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dessert", updated.Tags[0].Slug)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	// No residual line for the old ingredient.
	var count int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).
		Where("ingredient_id = ?", flour.ID).
		Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateRecipePermissions(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	admin := createTestUser(t, db, "root")
	flour := createTestIngredient(t, db, "flour", "g")

	created, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Dough", Text: "Mix",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flour.ID.String(), Amount: 200},
		},
	}, author.ID.String())
	require.NoError(t, err)

	req := domain.SaveRecipeRequest{
		Name: "Stolen dough", Text: "Mix",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flour.ID.String(), Amount: 300},
		},
	}

	_, err = svc.UpdateRecipe(ctx, req, created.ID, other.ID.String(), string(entities.RoleUser))
	assert.ErrorIs(t, err, domain.ErrUserNotAllowed)

	err = svc.DeleteRecipe(ctx, created.ID, other.ID.String(), string(entities.RoleUser))
	assert.ErrorIs(t, err, domain.ErrUserNotAllowed)

	_, err = svc.UpdateRecipe(ctx, req, created.ID, admin.ID.String(), string(entities.RoleAdmin))
	assert.NoError(t, err)
}

func TestFavoriteLifecycle(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	egg := createTestIngredient(t, db, "egg", "pcs")
	milk := createTestIngredient(t, db, "milk", "ml")
	createTestTag(t, db, "breakfast", "#FFAA00", "breakfast")

	created, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Omelette", Text: "Fry", CookingTime: 10,
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: egg.ID.String(), Amount: 2},
			{ID: milk.ID.String(), Amount: 100},
		},
	}, author.ID.String())
	require.NoError(t, err)

	summary, err := svc.AddFavorite(ctx, created.ID, viewer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, summary.ID)
	assert.Equal(t, "Omelette", summary.Name)
	assert.Equal(t, 10, summary.CookingTime)

	// Second add fails and stores nothing extra.
	_, err = svc.AddFavorite(ctx, created.ID, viewer.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorited)

	var count int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	favorites, total, err := svc.GetFavoriteRecipes(ctx, 1, 20, viewer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, favorites, 1)
	assert.Equal(t, created.ID, favorites[0].ID)

	require.NoError(t, svc.RemoveFavorite(ctx, created.ID, viewer.ID.String()))

	favorites, total, err = svc.GetFavoriteRecipes(ctx, 1, 20, viewer.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, favorites)

	err = svc.RemoveFavorite(ctx, created.ID, viewer.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFavorited)
}

func TestCartToggle(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	egg := createTestIngredient(t, db, "egg", "pcs")

	created, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Boiled egg", Text: "Boil",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: egg.ID.String(), Amount: 1},
		},
	}, author.ID.String())
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, created.ID, author.ID.String())
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, created.ID, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyInCart)

	var count int64
	require.NoError(t, db.Model(&entities.ShoppingCartEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.RemoveFromCart(ctx, created.ID, author.ID.String()))

	err = svc.RemoveFromCart(ctx, created.ID, author.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotInCart)
}

func TestDownloadShoppingCart(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	buyer := createTestUser(t, db, "bob")
	flour := createTestIngredient(t, db, "flour", "g")
	butter := createTestIngredient(t, db, "butter", "g")

	recipeA, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Bread", Text: "Bake",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flour.ID.String(), Amount: 200},
		},
	}, author.ID.String())
	require.NoError(t, err)

	recipeB, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Cake", Text: "Bake longer",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flour.ID.String(), Amount: 300},
			{ID: butter.ID.String(), Amount: 50},
		},
	}, author.ID.String())
	require.NoError(t, err)

	t.Run("empty cart yields header only", func(t *testing.T) {
		file, err := svc.DownloadShoppingCart(ctx, buyer.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "bob_shopping_list.txt", file.FileName)
		assert.Equal(t, "Shopping list\n", file.Content)
	})

	_, err = svc.AddToCart(ctx, recipeA.ID, buyer.ID.String())
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, recipeB.ID, buyer.ID.String())
	require.NoError(t, err)

	t.Run("amounts summed per ingredient, ordered by name", func(t *testing.T) {
		file, err := svc.DownloadShoppingCart(ctx, buyer.ID.String())
		require.NoError(t, err)

		lines := strings.Split(strings.TrimRight(file.Content, "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Shopping list", lines[0])
		assert.Equal(t, "butter - 50 g", lines[1])
		assert.Equal(t, "flour - 500 g", lines[2])
	})

	t.Run("other users unaffected", func(t *testing.T) {
		file, err := svc.DownloadShoppingCart(ctx, author.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Shopping list\n", file.Content)
	})
}

func TestDownloadShoppingCartMixedUnits(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	flourG := createTestIngredient(t, db, "flour", "g")
	flourKg := createTestIngredient(t, db, "flour", "kg")

	recipeA, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Bread", Text: "Bake",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flourG.ID.String(), Amount: 500},
		},
	}, author.ID.String())
	require.NoError(t, err)

	recipeB, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Big bread", Text: "Bake a lot",
		Ingredients: []domain.RecipeIngredientRequest{
			{ID: flourKg.ID.String(), Amount: 2},
		},
	}, author.ID.String())
	require.NoError(t, err)

	_, err = svc.AddToCart(ctx, recipeA.ID, author.ID.String())
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, recipeB.ID, author.ID.String())
	require.NoError(t, err)

	// Same name with different unit strings stays on separate lines.
	file, err := svc.DownloadShoppingCart(ctx, author.ID.String())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(file.Content, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines, "flour - 500 g")
	assert.Contains(t, lines, "flour - 2 kg")
}

func TestGetRecipesFilter(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	egg := createTestIngredient(t, db, "egg", "pcs")
	breakfast := createTestTag(t, db, "breakfast", "#FFAA00", "breakfast")
	dinner := createTestTag(t, db, "dinner", "#0000FF", "dinner")

	_, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Omelette", Text: "Fry",
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 2}},
		TagIDs:      []string{breakfast.ID.String()},
	}, alice.ID.String())
	require.NoError(t, err)

	_, err = svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Frittata", Text: "Bake",
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 4}},
		TagIDs:      []string{dinner.ID.String()},
	}, bob.ID.String())
	require.NoError(t, err)

	t.Run("by author", func(t *testing.T) {
		recipes, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{AuthorID: alice.ID.String()}, 1, 20, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Omelette", recipes[0].Name)
	})

	t.Run("by tag slug", func(t *testing.T) {
		recipes, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"dinner"}}, 1, 20, "")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Frittata", recipes[0].Name)
	})

	t.Run("multiple tag slugs", func(t *testing.T) {
		_, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}}, 1, 20, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("no filter", func(t *testing.T) {
		_, count, err := svc.GetRecipes(ctx, domain.RecipeFilter{}, 1, 20, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	egg := createTestIngredient(t, db, "egg", "pcs")
	breakfast := createTestTag(t, db, "breakfast", "#FFAA00", "breakfast")

	created, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Omelette", Text: "Fry",
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 2}},
		TagIDs:      []string{breakfast.ID.String()},
	}, author.ID.String())
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, created.ID, viewer.ID.String())
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, created.ID, viewer.ID.String())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(ctx, created.ID, author.ID.String(), string(entities.RoleUser)))

	var lines, favorites, cartEntries int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).Count(&lines).Error)
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&favorites).Error)
	require.NoError(t, db.Model(&entities.ShoppingCartEntry{}).Count(&cartEntries).Error)
	assert.Equal(t, int64(0), lines)
	assert.Equal(t, int64(0), favorites)
	assert.Equal(t, int64(0), cartEntries)

	_, err = svc.GetRecipeDetail(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	// The tag itself survives.
	var tags int64
	require.NoError(t, db.Model(&entities.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags)
}

func TestRecipeViewerFlags(t *testing.T) {
	db := setupRecipeTestDB(t)
	svc := newTestRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	egg := createTestIngredient(t, db, "egg", "pcs")

	created, err := svc.CreateRecipe(ctx, domain.SaveRecipeRequest{
		Name: "Omelette", Text: "Fry",
		Ingredients: []domain.RecipeIngredientRequest{{ID: egg.ID.String(), Amount: 2}},
	}, author.ID.String())
	require.NoError(t, err)

	_, err = svc.AddFavorite(ctx, created.ID, viewer.ID.String())
	require.NoError(t, err)

	res, err := svc.GetRecipeDetail(ctx, created.ID, viewer.ID.String())
	require.NoError(t, err)
	assert.True(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)

	anonymous, err := svc.GetRecipeDetail(ctx, created.ID, "")
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.IsInShoppingCart)
}
