package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"

	"github.com/shakil-official/comment-system/pkg/broker"
	"github.com/shakil-official/comment-system/pkg/cache"
	"github.com/shakil-official/comment-system/pkg/database"
	"github.com/shakil-official/comment-system/pkg/envelope"
	"github.com/shakil-official/comment-system/pkg/handlers"
	"github.com/shakil-official/comment-system/pkg/hub"
	"github.com/shakil-official/comment-system/pkg/middleware"
	"github.com/shakil-official/comment-system/pkg/repository"
	"github.com/shakil-official/comment-system/pkg/server"
	"github.com/shakil-official/comment-system/pkg/services"
)

func main() {
	godotenv.Load()

	db := database.Connect()
	defer db.Close()

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	database.Migrate(db)

	log.Println("[SERVER] Connecting to Redis...")
	redis := cache.New()
	defer redis.Close()

	bus := broker.New()
	defer bus.Close()
	log.Println("[SERVER] Redis connected")

	wsHub := hub.New()

	// Every instance hears every event; the hub only fans out to the rooms
	// it holds connections for.
	bus.Subscribe(func(env envelope.Envelope) {
		raw, err := env.Marshal()
		if err != nil {
			return
		}
		wsHub.BroadcastRaw(env.Post, raw)
	})

	authRepo := repository.NewAuthRepository(db)
	postsRepo := repository.NewPostsRepository(db)
	commentsRepo := repository.NewCommentsRepository(db)

	auth := handlers.NewAuth(services.NewAuthService(authRepo))
	posts := handlers.NewPosts(services.NewPostsService(postsRepo, commentsRepo, redis))
	comments := handlers.NewComments(services.NewCommentsService(commentsRepo, redis, bus))

	app := server.NewApp("comment-system")

	authGroup := app.Group("/auth")
	authGroup.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Register)

	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.Login)

	authGroup.Get("/me", middleware.AuthMiddleware, auth.Me)

	// /post/get/all must be registered before /post/:id
	postGroup := app.Group("/post")
	postGroup.Get("/get/all", posts.List)
	postGroup.Post("/create", middleware.AuthMiddleware, posts.Create)
	postGroup.Get("/:id", posts.Thread)

	commentGroup := app.Group("/comment")
	commentGroup.Get("/get/post/:postId", comments.Page)
	commentPriv := commentGroup.Group("", middleware.AuthMiddleware)
	commentPriv.Post("/create", comments.Create)
	commentPriv.Patch("/:id", comments.Edit)
	commentPriv.Delete("/:id", comments.Delete)
	commentPriv.Patch("/:id/:kind", comments.ToggleReaction)

	app.Get("/hub/status", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"clients": wsHub.ClientCount(),
			"rooms":   wsHub.RoomCount(),
		})
	})

	app.Use("/ws", parseWSToken)
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		userID, _ := c.Locals("user_id").(string)
		wsHub.HandleClientConn(c, userID)
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	addr := "0.0.0.0:" + port
	log.Printf("[SERVER] WebSocket: ws://<domain>/ws")
	log.Printf("[SERVER] Server starting on %s", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("[SERVER] Failed to start: %v", err)
	}
}

// parseWSToken lets unauthenticated clients watch a thread; a valid token
// just tags the connection with the user id.
func parseWSToken(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = authHeader[7:]
		}
	}

	userID := ""
	if tokenStr != "" {
		if claims, err := middleware.ParseToken(tokenStr); err == nil {
			userID, _ = claims["user_id"].(string)
		}
	}

	c.Locals("user_id", userID)
	return c.Next()
}
