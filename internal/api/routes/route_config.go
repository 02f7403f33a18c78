package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/m2-berezin/safedine-app/internal/api/handlers"
	"github.com/m2-berezin/safedine-app/internal/middleware"
	"github.com/m2-berezin/safedine-app/pkg/jwt"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	PreferenceHandler handlers.PreferenceHandler
	MenuHandler       handlers.MenuHandler
	CartHandler       handlers.CartHandler
	OrderHandler      handlers.OrderHandler
	TableHandler      handlers.TableHandler
	LoyaltyHandler    handlers.LoyaltyHandler
	ReviewHandler     handlers.ReviewHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.SessionMiddleware())

	c.User()
	c.Restaurants()
	c.Preferences()
	c.Menu()
	c.Cart()
	c.Orders()
	c.Loyalty()
	c.Reviews()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Restaurants() {
	c.App.Get("/api/v1/restaurants", c.TableHandler.GetRestaurants)
	c.App.Get("/api/v1/restaurants/:id/tables", c.TableHandler.GetTables)
	c.App.Get("/api/v1/restaurants/:id/reviews", c.ReviewHandler.GetReviews)
	c.App.Post("/api/v1/tables/select", c.TableHandler.SelectTable)
	c.App.Get("/api/v1/tables/:id/qr", c.TableHandler.TableQR)
}

func (c *Config) Preferences() {
	prefs := c.App.Group("/api/v1/preferences", c.Middleware.OptionalAuthMiddleware(c.JWTService))
	{
		prefs.Get("", c.PreferenceHandler.GetPreferences)
		prefs.Put("", c.PreferenceHandler.SavePreferences)
		prefs.Delete("", c.PreferenceHandler.ResetPreferences)
	}

	c.App.Get("/api/v1/consent", c.PreferenceHandler.GetConsent)
	c.App.Put("/api/v1/consent", c.PreferenceHandler.SetConsent)
}

func (c *Config) Menu() {
	c.App.Get("/api/v1/menu/:restaurantID", c.MenuHandler.GetMenu)
	c.App.Post("/api/v1/menu/items/:id/image",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.StaffOnly(),
		c.MenuHandler.UploadItemImage)
}

func (c *Config) Cart() {
	cart := c.App.Group("/api/v1/cart")
	{
		cart.Get("", c.CartHandler.GetCart)
		cart.Post("", c.CartHandler.AddToCart)
		cart.Patch("", c.CartHandler.UpdateCart)
		cart.Delete("", c.CartHandler.RemoveFromCart)
	}
}

func (c *Config) Orders() {
	orders := c.App.Group("/api/v1/orders", c.Middleware.OptionalAuthMiddleware(c.JWTService))
	{
		orders.Post("", c.OrderHandler.PlaceOrder)
		orders.Get("", c.OrderHandler.GetOrders)
		orders.Get("/tracking", c.OrderHandler.GetTracking)
		orders.Get("/:id", c.OrderHandler.GetOrder)
		orders.Patch("/:id/status",
			c.Middleware.AuthMiddleware(c.JWTService),
			c.Middleware.StaffOnly(),
			c.OrderHandler.UpdateStatus)
	}

	c.App.Get("/ws/orders",
		c.Middleware.OptionalAuthMiddleware(c.JWTService),
		c.OrderHandler.WSUpgrade,
		websocket.New(c.OrderHandler.OrderSocket))
}

func (c *Config) Loyalty() {
	loyalty := c.App.Group("/api/v1/loyalty", c.Middleware.AuthMiddleware(c.JWTService))
	{
		loyalty.Get("", c.LoyaltyHandler.GetLoyalty)
		loyalty.Post("/redeem", c.LoyaltyHandler.RedeemReward)
	}
}

func (c *Config) Reviews() {
	c.App.Post("/api/v1/reviews",
		c.Middleware.OptionalAuthMiddleware(c.JWTService),
		c.ReviewHandler.CreateReview)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
