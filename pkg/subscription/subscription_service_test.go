package subscription

import (
	"context"
	"testing"

	"Go-Recipe-Backend/domain"
	"Go-Recipe-Backend/entities"
	"Go-Recipe-Backend/pkg/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSubscriptionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
	)
	require.NoError(t, err)

	return db
}

func newTestSubscriptionService(db *gorm.DB) SubscriptionService {
	return NewSubscriptionService(NewSubscriptionRepository(db), user.NewUserRepository(db))
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	u := &entities.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Role:     entities.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedRecipe(t *testing.T, db *gorm.DB, author *entities.User, name string) *entities.Recipe {
	r := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    &author.ID,
		Name:        name,
		Text:        "cook it",
		CookingTime: 5,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestSubscribeSelf(t *testing.T) {
	db := setupSubscriptionTestDB(t)
	svc := newTestSubscriptionService(db)

	alice := seedUser(t, db, "alice")

	_, err := svc.Subscribe(context.Background(), alice.ID.String(), alice.ID.String(), 0)
	assert.ErrorIs(t, err, domain.ErrSelfSubscribe)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := setupSubscriptionTestDB(t)
	svc := newTestSubscriptionService(db)

	alice := seedUser(t, db, "alice")

	_, err := svc.Subscribe(context.Background(), alice.ID.String(), uuid.NewString(), 0)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSubscribeLifecycle(t *testing.T) {
	db := setupSubscriptionTestDB(t)
	svc := newTestSubscriptionService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedRecipe(t, db, bob, "Omelette")
	seedRecipe(t, db, bob, "Frittata")
	seedRecipe(t, db, bob, "Shakshuka")

	profile, err := svc.Subscribe(ctx, alice.ID.String(), bob.ID.String(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
	assert.True(t, profile.IsSubscribed)
	assert.Equal(t, int64(3), profile.RecipesCount)
	assert.Len(t, profile.Recipes, 2)

	_, err = svc.Subscribe(ctx, alice.ID.String(), bob.ID.String(), 2)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)

	var count int64
	require.NoError(t, db.Model(&entities.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	list, err := svc.GetSubscriptions(ctx, alice.ID.String(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "bob", list.Results[0].Username)
	assert.Len(t, list.Results[0].Recipes, 3)

	require.NoError(t, svc.Unsubscribe(ctx, alice.ID.String(), bob.ID.String()))

	err = svc.Unsubscribe(ctx, alice.ID.String(), bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotSubscribed)

	list, err = svc.GetSubscriptions(ctx, alice.ID.String(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)
	assert.Empty(t, list.Results)
}

func TestSubscriptionsDoNotLeakAcrossUsers(t *testing.T) {
	db := setupSubscriptionTestDB(t)
	svc := newTestSubscriptionService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.Subscribe(ctx, alice.ID.String(), bob.ID.String(), 0)
	require.NoError(t, err)

	list, err := svc.GetSubscriptions(ctx, carol.ID.String(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)

	// Bob following Alice back is a separate subscription.
	_, err = svc.Subscribe(ctx, bob.ID.String(), alice.ID.String(), 0)
	require.NoError(t, err)

	list, err = svc.GetSubscriptions(ctx, bob.ID.String(), 1, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, "alice", list.Results[0].Username)
}
