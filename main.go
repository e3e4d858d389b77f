package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Shash-135/Synca/routes"
	"github.com/Shash-135/Synca/storage"
	"github.com/Shash-135/Synca/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, utils.UserIDFromTokenMiddleware, routes.GetUser)
	}

	property := app.Party("/api/property")
	{
		property.Get("/{id:uint}", routes.GetProperty)
		property.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.CreateProperty)
		property.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.GetOwnerProperties)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.DeleteProperty)
		property.Post("/{id:uint}/rooms", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.AddRoom)
		property.Patch("/rooms/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.RenameRoom)
		property.Post("/rooms/{id:uint}/beds", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.AddBed)
		property.Patch("/beds/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.RenameBed)
		property.Delete("/beds/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware, routes.RemoveBed)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/bed/{id:uint}", routes.CreateBooking)
		booking.Get("/", routes.GetUserBookings)
		booking.Get("/{id:uint}", routes.GetBooking)
		booking.Patch("/{id:uint}/dates", routes.UpdateBookingDates)
		booking.Post("/{id:uint}/cancel", routes.CancelBooking)
	}

	owner := app.Party("/api/owner", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, utils.OwnerOnlyMiddleware)
	{
		owner.Get("/dashboard", routes.OwnerDashboard)
		owner.Get("/property/{id:uint}/bookings", routes.GetPropertyBookings)
		owner.Post("/bed/{id:uint}/booking", routes.CreateOfflineBooking)
		owner.Patch("/bed/{id:uint}/availability", routes.ToggleBedAvailability)
		owner.Patch("/booking/{id:uint}/dates", routes.OwnerUpdateBookingDates)
		owner.Post("/booking/{id:uint}/cancel", routes.OwnerCancelBooking)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/bed/{id:uint}", routes.GetBedAvailability)
		availability.Get("/bed/{id:uint}/quote", routes.GetBedQuote)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshAccessToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
