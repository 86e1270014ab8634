package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/campus-eats/internal/httpx"
	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/stall"
)

// registerStallHandler godoc
// @Summary  Register a stall
// @Tags     stall
// @Accept   json
// @Produce  json
// @Param    body body stall.RegisterRequest true "Stall"
// @Success  201 {object} stall.Stall
// @Failure  400 {object} map[string]string
// @Router   /stall/register [post]
func registerStallHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in stall.RegisterRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

// loginStallHandler godoc
// @Summary  Stall login
// @Tags     stall
// @Accept   json
// @Produce  json
// @Param    body body stall.LoginRequest true "Credentials"
// @Success  200 {object} stall.Stall
// @Failure  401 {object} map[string]string
// @Router   /stall/login [post]
func loginStallHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in stall.LoginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.Login(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// listStallsHandler godoc
// @Summary  List stalls with their menus
// @Tags     stall
// @Produce  json
// @Success  200 {object} stall.ListResponse
// @Router   /stall [get]
func listStallsHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, stall.ListResponse{Items: items})
	}
}

// getStallHandler godoc
// @Summary  Get a stall
// @Tags     stall
// @Produce  json
// @Param    id path string true "Stall ID"
// @Success  200 {object} stall.Stall
// @Failure  404 {object} map[string]string
// @Router   /stall/{id} [get]
func getStallHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// deleteStallHandler godoc
// @Summary  Delete a stall and drop it from every student's favorites
// @Tags     stall
// @Param    id path string true "Stall ID"
// @Success  204
// @Failure  404 {object} map[string]string
// @Router   /stall/{id} [delete]
func deleteStallHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// addMenuItemHandler godoc
// @Summary  Add a menu item
// @Tags     menu
// @Accept   json
// @Produce  json
// @Param    body body stall.MenuItemRequest true "Menu item"
// @Success  201 {object} stall.Stall
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /stall/menu [post]
func addMenuItemHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in stall.MenuItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.AddMenuItem(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s)
	}
}

// updateMenuItemHandler godoc
// @Summary  Update a menu item; omitted fields keep their value
// @Tags     menu
// @Accept   json
// @Produce  json
// @Param    stallId path string true "Stall ID"
// @Param    itemId  path string true "Menu item ID"
// @Param    body body stall.UpdateMenuItemRequest true "Changes"
// @Success  200 {object} stall.Stall
// @Failure  404 {object} map[string]string
// @Router   /stall/menu/{stallId}/{itemId} [put]
func updateMenuItemHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in stall.UpdateMenuItemRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.UpdateMenuItem(c.Request.Context(), c.Param("stallId"), c.Param("itemId"), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// deleteMenuItemHandler godoc
// @Summary  Delete a menu item
// @Tags     menu
// @Produce  json
// @Param    stallId path string true "Stall ID"
// @Param    itemId  path string true "Menu item ID"
// @Success  200 {object} stall.Stall
// @Failure  404 {object} map[string]string
// @Router   /stall/menu/{stallId}/{itemId} [delete]
func deleteMenuItemHandler(svc *stall.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.DeleteMenuItem(c.Request.Context(), c.Param("stallId"), c.Param("itemId"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// stallOrdersHandler godoc
// @Summary  Orders received by a stall, newest first
// @Tags     orders
// @Produce  json
// @Param    id path string true "Stall ID"
// @Success  200 {object} order.ListResponse
// @Failure  404 {object} map[string]string
// @Router   /stall/{id}/orders [get]
func stallOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.StallOrders(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ListResponse{Items: items})
	}
}

// placeStallOrderHandler godoc
// @Summary  Record an order at the counter
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body order.StallPlaceRequest true "Order"
// @Success  201 {object} order.Order
// @Failure  400 {object} map[string]string
// @Failure  409 {object} map[string]string
// @Router   /stall/order [post]
func placeStallOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.StallPlaceRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		o, err := svc.PlaceForStall(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// removeStallOrderHandler godoc
// @Summary  Remove an order from the stall's list
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body order.DeleteOrderRequest true "Order"
// @Success  200 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /stall/deleteOrder [post]
func removeStallOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.DeleteOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		if err := svc.Remove(c.Request.Context(), in.OrderID, order.Owner{StallID: in.StallID}); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "order deleted", "orderId": in.OrderID})
	}
}

// updateOrderStatusHandler godoc
// @Summary  Move a pending order to completed or cancelled
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id      path string true "Stall ID"
// @Param    orderId path string true "Order ID"
// @Param    body body order.StatusRequest true "New status"
// @Success  200 {object} order.Order
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Failure  409 {object} map[string]string
// @Router   /stall/{id}/orders/{orderId}/status [put]
func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.StatusRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), c.Param("orderId"), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// getOrderHandler godoc
// @Summary  Get an order
// @Tags     orders
// @Produce  json
// @Param    id path string true "Order ID"
// @Success  200 {object} order.Order
// @Failure  404 {object} map[string]string
// @Router   /orders/{id} [get]
func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
