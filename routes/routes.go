package routes

import (
	"github.com/addisbingo/cartela-backend/controllers"
	"github.com/gin-gonic/gin"
)

// Setup registers the REST surface. The websocket endpoint is wired in
// main next to the health check.
func Setup(r *gin.Engine, games *controllers.GameController, users *controllers.UserController, wallet *controllers.WalletController) {
	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", users.Register)
	api.GET("/users/:telegram_id", users.Get)
	api.PATCH("/users/:telegram_id/phone", users.UpdatePhone)

	// ----------------------
	// Game routes
	// ----------------------
	api.POST("/games", games.CreateOrJoin)
	api.GET("/games", games.ListRounds)
	api.GET("/games/:id", games.GetRoom)
	api.GET("/cards/:id", games.GetCard)

	// ----------------------
	// Wallet routes
	// ----------------------
	api.POST("/deposit", wallet.Deposit)
	api.POST("/withdraw", wallet.Withdraw)
	api.GET("/transactions/:telegram_id", wallet.History)
}
