package api

import "github.com/gin-gonic/gin"

// SetupRoutes registers every endpoint on router.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics *Metrics) {
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/reports", handler.ListReports)
		v1.GET("/reports/:name", handler.GetReport)

		v1.GET("/providers", handler.ListProviders)
		v1.GET("/providers/cities", handler.ListProviderCities)
		v1.GET("/receivers", handler.ListReceivers)

		v1.GET("/listings", handler.ListListings)
		v1.GET("/listings/options", handler.ListingOptions)
		v1.GET("/listings/next-id", handler.NextFoodID)
		v1.GET("/listings/:id", handler.GetListing)
		v1.POST("/listings", handler.CreateListing)
		v1.PUT("/listings/:id", handler.UpdateListing)
		v1.DELETE("/listings/:id", handler.DeleteListing)

		v1.GET("/claims", handler.ClaimHistory)
		v1.GET("/claims/next-id", handler.NextClaimID)
		v1.POST("/claims", handler.SubmitClaim)

		v1.POST("/admin/reload", handler.Reload)
	}
}
