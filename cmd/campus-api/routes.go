package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/campus-eats/docs"
	"github.com/MikeMC777/campus-eats/internal/httpx"
)

func newRouter(a app, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), httpx.Recovery(), httpx.CORS(corsOrigins))

	r.GET("/healthz", healthHandler(a))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws", gin.WrapF(a.hub.ServeWS))

	st := r.Group("/student")
	st.POST("/register", registerStudentHandler(a.students))
	st.POST("/login", loginStudentHandler(a.students))
	st.POST("/order", placeStudentOrderHandler(a.orders))
	st.GET("/order/:id", studentHistoryHandler(a.orders))
	st.GET("/:id", getStudentHandler(a.students))
	st.DELETE("/:id/orders/:orderId", removeStudentOrderHandler(a.orders))

	sl := r.Group("/stall")
	sl.POST("/register", registerStallHandler(a.stalls))
	sl.POST("/login", loginStallHandler(a.stalls))
	sl.GET("", listStallsHandler(a.stalls))
	sl.GET("/:id", getStallHandler(a.stalls))
	sl.DELETE("/:id", deleteStallHandler(a.stalls))
	sl.GET("/:id/orders", stallOrdersHandler(a.orders))
	sl.PUT("/:id/orders/:orderId/status", updateOrderStatusHandler(a.orders))
	sl.POST("/menu", addMenuItemHandler(a.stalls))
	sl.PUT("/menu/:stallId/:itemId", updateMenuItemHandler(a.stalls))
	sl.DELETE("/menu/:stallId/:itemId", deleteMenuItemHandler(a.stalls))
	sl.POST("/order", placeStallOrderHandler(a.orders))
	sl.POST("/deleteOrder", removeStallOrderHandler(a.orders))

	r.GET("/orders/:id", getOrderHandler(a.orders))

	pf := r.Group("/preferences/:studentId")
	pf.GET("/theme", getThemeHandler(a.students))
	pf.PUT("/theme", setThemeHandler(a.students))
	pf.GET("/favorites", listFavoritesHandler(a.students))
	pf.POST("/favorites", addFavoriteHandler(a.students))
	pf.DELETE("/favorites", removeFavoriteHandler(a.students))

	rv := r.Group("/reviews")
	rv.POST("", createReviewHandler(a.reviews))
	rv.GET("/stall/:stallId", listReviewsHandler(a.reviews))
	rv.GET("/stall/:stallId/menu-item/:menuItemId", listReviewsHandler(a.reviews))
	rv.POST("/stall/:stallId/recompute", recomputeRatingsHandler(a.reviews))
	rv.PUT("/:reviewId", updateReviewHandler(a.reviews))
	rv.DELETE("/:reviewId", deleteReviewHandler(a.reviews))

	return r
}

// healthHandler godoc
// @Summary  Liveness and store reachability
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]any
// @Failure  503 {object} map[string]any
// @Router   /healthz [get]
func healthHandler(a app) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		body := gin.H{"status": "ok", "relayClients": a.hub.Len()}
		if a.ready != nil {
			if err := a.ready(ctx); err != nil {
				body["status"] = "degraded"
				body["store"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, body)
				return
			}
		}
		c.JSON(http.StatusOK, body)
	}
}
