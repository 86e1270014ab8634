package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/campus-eats/internal/httpx"
	"github.com/MikeMC777/campus-eats/internal/order"
	"github.com/MikeMC777/campus-eats/internal/student"
)

// registerStudentHandler godoc
// @Summary  Register a student
// @Tags     student
// @Accept   json
// @Produce  json
// @Param    body body student.RegisterRequest true "Student"
// @Success  201 {object} student.Student
// @Failure  400 {object} map[string]string
// @Router   /student/register [post]
func registerStudentHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in student.RegisterRequest
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

// loginStudentHandler godoc
// @Summary  Student login
// @Tags     student
// @Accept   json
// @Produce  json
// @Param    body body student.LoginRequest true "Credentials"
// @Success  200 {object} student.Student
// @Failure  401 {object} map[string]string
// @Router   /student/login [post]
func loginStudentHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in student.LoginRequest
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

// getStudentHandler godoc
// @Summary  Student profile
// @Tags     student
// @Produce  json
// @Param    id path string true "Student ID"
// @Success  200 {object} student.Student
// @Failure  404 {object} map[string]string
// @Router   /student/{id} [get]
func getStudentHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// placeStudentOrderHandler godoc
// @Summary  Place an order as a student
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body order.PlaceRequest true "Order"
// @Success  201 {object} order.Order
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /student/order [post]
func placeStudentOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.PlaceRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		o, err := svc.PlaceForStudent(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// studentHistoryHandler godoc
// @Summary  Order history of a student, newest first
// @Tags     orders
// @Produce  json
// @Param    id path string true "Student ID"
// @Success  200 {object} order.ListResponse
// @Failure  404 {object} map[string]string
// @Router   /student/order/{id} [get]
func studentHistoryHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.History(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, order.ListResponse{Items: items})
	}
}

// removeStudentOrderHandler godoc
// @Summary  Remove an order from the student's history
// @Tags     orders
// @Param    id      path string true "Student ID"
// @Param    orderId path string true "Order ID"
// @Success  204
// @Failure  404 {object} map[string]string
// @Router   /student/{id}/orders/{orderId} [delete]
func removeStudentOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := order.Owner{StudentID: c.Param("id")}
		if err := svc.Remove(c.Request.Context(), c.Param("orderId"), owner); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
