package restapi

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with the given middleware and registers every route.
func SetupRouter(handler *ExplorerHandler, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware...)

	api := router.Group("/api")
	{
		api.POST("/block", handler.GetBlock)
		api.POST("/wallet", handler.GetWallet)
		api.POST("/input/classify", handler.ClassifyInput)

		api.GET("/networks", handler.ListNetworks)
		api.POST("/network/switch", handler.SwitchNetwork)

		api.GET("/defi/swaps", handler.RecentSwaps)
		api.POST("/defi/token", handler.TokenInfo)
		api.GET("/defi/pool/:address", handler.PoolInfo)
		api.GET("/ens/:name", handler.ENSDomain)
		api.GET("/transaction/:hash", handler.Transaction)

		api.GET("/config", handler.ConfigStatus)
	}

	router.GET("/health", handler.Health)

	return router
}
