package server

import (
	"helpmarket/internal/auth"
	bidding "helpmarket/internal/biddingService"
	messaging "helpmarket/internal/messagingService"
	query "helpmarket/internal/queryService"
	"helpmarket/internal/repository"
	handler "helpmarket/services/market/handler"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the router serves
type Services struct {
	Bidding   *bidding.BiddingService
	Query     *query.QueryService
	Messaging *messaging.MessagingService
	Sessions  *auth.SessionStore
}

// NewServices wires every service over one entity store
func NewServices(repo repository.MarketDB, sessions *auth.SessionStore) Services {
	return Services{
		Bidding:   bidding.NewBiddingService(repo),
		Query:     query.NewQueryService(repo),
		Messaging: messaging.NewMessagingService(repo),
		Sessions:  sessions,
	}
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(svc Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(AuthenticationMiddleware(svc.Sessions))

	authHandler := handler.NewAuthHandler(svc.Sessions)
	biddingHandler := handler.NewBiddingHandler(svc.Bidding, svc.Query)
	queryHandler := handler.NewQueryHandler(svc.Query)
	messagingHandler := handler.NewMessagingHandler(svc.Messaging)

	sessions := router.Group("/auth")
	{
		sessions.POST("/sessions", authHandler.SignInHandler)
		sessions.DELETE("/sessions", authHandler.SignOutHandler)
		sessions.GET("/me", authHandler.CurrentUserHandler)
	}

	requests := router.Group("/requests")
	{
		requests.GET("", queryHandler.SearchRequestsHandler)
		requests.POST("", biddingHandler.PostRequestHandler)
		requests.GET("/:request_id", queryHandler.GetRequestHandler)
		requests.GET("/:request_id/time-left", queryHandler.GetTimeLeftHandler)
		requests.GET("/:request_id/bids", queryHandler.GetBidsForRequestHandler)
		requests.POST("/:request_id/bids", biddingHandler.SubmitBidHandler)
		requests.POST("/:request_id/bids/:bid_id/accept", biddingHandler.AcceptBidHandler)
		requests.POST("/:request_id/complete", biddingHandler.CompleteRequestHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/me/requests", queryHandler.GetMyRequestsHandler)
	}

	router.GET("/stats", queryHandler.GetStatsHandler)

	conversations := router.Group("/conversations")
	{
		conversations.GET("", messagingHandler.ListConversationsHandler)
		conversations.GET("/:conversation_id/messages", messagingHandler.ListMessagesHandler)
		conversations.POST("/:conversation_id/messages", messagingHandler.SendMessageHandler)
	}

	return router
}
