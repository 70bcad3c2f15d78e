package routes

import (
	"Go-Recipe-Backend/internal/api/handlers"
	"Go-Recipe-Backend/internal/middleware"
	"Go-Recipe-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Users()
	c.Tags()
	c.Ingredients()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) Users() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	users := c.App.Group("/api/v1/users")
	{
		users.Post("/register", c.UserHandler.Register)
		users.Post("/login", c.UserHandler.Login)
		users.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		users.Get("/verify", c.UserHandler.VerifyEmail)
		users.Get("/me", auth, c.UserHandler.Me)
		users.Patch("/update", auth, c.UserHandler.UpdateUser)
		users.Get("/subscriptions", auth, c.UserHandler.GetSubscriptions)
		users.Get("/:id", optional, c.UserHandler.GetProfile)
		users.Post("/:id/subscribe", auth, c.UserHandler.Subscribe)
		users.Delete("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Tags() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	tags := c.App.Group("/api/v1/tags")
	{
		tags.Get("", c.CatalogHandler.GetTags)
		tags.Post("", auth, c.CatalogHandler.CreateTag)
		tags.Get("/:id", c.CatalogHandler.GetTagDetail)
		tags.Delete("/:id", auth, c.CatalogHandler.DeleteTag)
	}
}

func (c *Config) Ingredients() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)

	ingredients := c.App.Group("/api/v1/ingredients")
	{
		ingredients.Get("", c.CatalogHandler.GetIngredients)
		ingredients.Post("", auth, c.CatalogHandler.CreateIngredient)
		ingredients.Get("/:id", c.CatalogHandler.GetIngredientDetail)
		ingredients.Put("/:id", auth, c.CatalogHandler.UpdateIngredient)
		ingredients.Delete("/:id", auth, c.CatalogHandler.DeleteIngredient)
	}
}

func (c *Config) Recipes() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/v1/recipes")
	{
		// Static paths before the :id routes.
		recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingCart)
		recipes.Get("/favorites", auth, c.RecipeHandler.GetFavoriteRecipes)

		recipes.Get("", optional, c.RecipeHandler.GetRecipes)
		recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
		recipes.Get("/:id", optional, c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Put("/:id", auth, c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)

		recipes.Post("/:id/image", auth, c.RecipeHandler.UploadRecipeImage)
		recipes.Post("/:id/favorite", auth, c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", auth, c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", auth, c.RecipeHandler.AddToCart)
		recipes.Delete("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromCart)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
