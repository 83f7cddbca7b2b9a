package rpc

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (rpc *RpcController) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// broadcast API
	router.POST("dispatch", rpc.Dispatch)
	router.POST("process", rpc.Process)

	// owner API
	router.POST("default_ism", rpc.SetDefaultIsm)
	router.POST("default_hook", rpc.SetDefaultHook)
	router.POST("ownership/init_transfer", rpc.InitOwnershipTransfer)
	router.POST("ownership/revoke_transfer", rpc.RevokeOwnershipTransfer)
	router.POST("ownership/claim", rpc.ClaimOwnership)

	// query API
	router.GET("nonce", rpc.QueryNonce)
	router.GET("latest_dispatched", rpc.QueryLatestDispatched)
	router.GET("delivered", rpc.QueryDelivered)
	router.GET("owner", rpc.QueryOwner)
	router.GET("pending_owner", rpc.QueryPendingOwner)
	router.GET("config", rpc.QueryConfig)
	return router
}
