package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/campus-eats/internal/httpx"
	"github.com/MikeMC777/campus-eats/internal/review"
)

// createReviewHandler godoc
// @Summary  Review a stall or one of its menu items
// @Tags     reviews
// @Accept   json
// @Produce  json
// @Param    body body review.CreateRequest true "Review"
// @Success  201 {object} review.Review
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /reviews [post]
func createReviewHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in review.CreateRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		r, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

// listReviewsHandler godoc
// @Summary  Reviews of a stall, optionally of one menu item, newest first
// @Tags     reviews
// @Produce  json
// @Param    stallId    path string true  "Stall ID"
// @Param    menuItemId path string false "Menu item"
// @Success  200 {object} review.ListResponse
// @Router   /reviews/stall/{stallId} [get]
// @Router   /reviews/stall/{stallId}/menu-item/{menuItemId} [get]
func listReviewsHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), c.Param("stallId"), c.Param("menuItemId"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, review.ListResponse{Items: items})
	}
}

// updateReviewHandler godoc
// @Summary  Edit a review
// @Tags     reviews
// @Accept   json
// @Produce  json
// @Param    reviewId path string true "Review ID"
// @Param    body body review.UpdateRequest true "Changes"
// @Success  200 {object} review.Review
// @Failure  404 {object} map[string]string
// @Router   /reviews/{reviewId} [put]
func updateReviewHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in review.UpdateRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		r, err := svc.Update(c.Request.Context(), c.Param("reviewId"), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// deleteReviewHandler godoc
// @Summary  Delete a review
// @Tags     reviews
// @Param    reviewId path string true "Review ID"
// @Success  204
// @Failure  404 {object} map[string]string
// @Router   /reviews/{reviewId} [delete]
func deleteReviewHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("reviewId")); err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// recomputeRatingsHandler godoc
// @Summary  Rebuild the stall and menu item ratings from every review
// @Tags     reviews
// @Produce  json
// @Param    stallId path string true "Stall ID"
// @Success  200 {object} review.Summary
// @Failure  404 {object} map[string]string
// @Router   /reviews/stall/{stallId}/recompute [post]
func recomputeRatingsHandler(svc *review.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := svc.Recompute(c.Request.Context(), c.Param("stallId"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}
