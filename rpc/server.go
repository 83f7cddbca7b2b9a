package rpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const ShutdownTimeoutSeconds = 5

type RpcServer struct {
	router *gin.Engine
	server *http.Server
	port   string
	C      *RpcController
}

func NewRpcServer(port string, controller *RpcController) *RpcServer {
	router := controller.NewRouter()

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	rpc := &RpcServer{
		port:   port,
		router: router,
		server: server,
		C:      controller,
	}
	return rpc
}

func (srv *RpcServer) Start() {
	logrus.Infof("Listening Http on %s", srv.port)
	go func() {
		// service connections
		if err := srv.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatalf("Error in Http server")
		}
	}()
}

func (srv *RpcServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeoutSeconds*time.Second)
	defer cancel()
	if err := srv.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatalf("Error while shutting down the Http server")
	}
	logrus.Infof("Http server Stopped")
}

func (srv *RpcServer) Name() string {
	return fmt.Sprintf("rpcServer at port %s", srv.port)
}
