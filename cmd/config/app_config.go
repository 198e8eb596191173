package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"github.com/piqadolf/foodgram-project-react/internal/api/handlers"
	"github.com/piqadolf/foodgram-project-react/internal/api/routes"
	"github.com/piqadolf/foodgram-project-react/internal/middleware"
	"github.com/piqadolf/foodgram-project-react/internal/utils"
	"github.com/piqadolf/foodgram-project-react/internal/utils/storage"
	"github.com/piqadolf/foodgram-project-react/pkg/ingredient"
	"github.com/piqadolf/foodgram-project-react/pkg/jwt"
	"github.com/piqadolf/foodgram-project-react/pkg/recipe"
	"github.com/piqadolf/foodgram-project-react/pkg/relation"
	"github.com/piqadolf/foodgram-project-react/pkg/shopping"
	"github.com/piqadolf/foodgram-project-react/pkg/tag"
	"github.com/piqadolf/foodgram-project-react/pkg/user"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate
	bounds := utils.GetBounds()

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)
	shoppingRepository := shopping.NewShoppingRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	relationService := relation.NewRelationService(relationRepository)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		tagRepository,
		ingredientRepository,
		relationService,
		s3,
		bounds,
	)
	shoppingService := shopping.NewShoppingService(shoppingRepository)
	userService := user.NewUserService(
		userRepository,
		recipeRepository,
		relationService,
		jwtService,
		bounds,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(
		recipeService,
		relationService,
		shoppingService,
		validator,
	)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
