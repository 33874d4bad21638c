package httpapi

import "github.com/gin-gonic/gin"

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, opts *ServerOpts) {
	// Uploaded media is publicly dereferenceable without auth.
	router.Static("/media", opts.Media.Root)

	api := router.Group("/api")
	api.Use(authMiddleware(opts.Provider))

	api.POST("/jobs", handleCreateJob(opts))
	api.GET("/jobs/open", handleListOpen(opts))
	api.GET("/jobs/open/events", handleOpenJobsSSE(opts))
	api.GET("/jobs/mine", handleListMine(opts))
	api.GET("/jobs/assigned", handleListAssigned(opts))
	api.GET("/jobs/:id", handleGetJob(opts))
	api.POST("/jobs/:id/proposals", handleSubmitProposal(opts))
	api.POST("/jobs/:id/accept", handleAccept(opts))
	api.POST("/jobs/:id/complete", handleComplete(opts))

	api.GET("/jobs/:id/chat", handleThread(opts))
	api.POST("/jobs/:id/chat", handleSendMessage(opts))
	api.POST("/jobs/:id/chat/read", handleMarkThreadRead(opts))
	api.GET("/jobs/:id/chat/events", handleChatSSE(opts))

	api.GET("/notifications", handleInbox(opts))
	api.GET("/notifications/unread-count", handleUnreadCount(opts))
	api.GET("/notifications/events", handleInboxSSE(opts))
	api.POST("/notifications/:id/read", handleMarkRead(opts))
	api.POST("/notifications/read-all", handleMarkAllRead(opts))

	api.GET("/workers/:id", handleWorkerProfile(opts))
	api.POST("/workers/:id/reviews", handleAddReview(opts))
}
