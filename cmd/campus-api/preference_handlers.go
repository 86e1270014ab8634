package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/campus-eats/internal/httpx"
	"github.com/MikeMC777/campus-eats/internal/student"
)

// getThemeHandler godoc
// @Summary  Theme preference of a student
// @Tags     preferences
// @Produce  json
// @Param    studentId path string true "Student ID"
// @Success  200 {object} student.ThemeResponse
// @Failure  404 {object} map[string]string
// @Router   /preferences/{studentId}/theme [get]
func getThemeHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		theme, err := svc.Theme(c.Request.Context(), c.Param("studentId"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, student.ThemeResponse{ThemePreference: theme})
	}
}

// setThemeHandler godoc
// @Summary  Set the theme preference
// @Tags     preferences
// @Accept   json
// @Produce  json
// @Param    studentId path string true "Student ID"
// @Param    body body student.ThemeRequest true "Theme"
// @Success  200 {object} student.ThemeResponse
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /preferences/{studentId}/theme [put]
func setThemeHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in student.ThemeRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.SetTheme(c.Request.Context(), c.Param("studentId"), in.ThemePreference)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, student.ThemeResponse{ThemePreference: s.Theme})
	}
}

// listFavoritesHandler godoc
// @Summary  Favorites with their stalls
// @Tags     preferences
// @Produce  json
// @Param    studentId path string true "Student ID"
// @Success  200 {object} map[string][]student.FavoriteView
// @Failure  404 {object} map[string]string
// @Router   /preferences/{studentId}/favorites [get]
func listFavoritesHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Favorites(c.Request.Context(), c.Param("studentId"))
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// addFavoriteHandler godoc
// @Summary  Add a favorite; menuItemId "all" marks the whole stall
// @Tags     preferences
// @Accept   json
// @Produce  json
// @Param    studentId path string true "Student ID"
// @Param    body body student.FavoriteRequest true "Favorite"
// @Success  201 {object} map[string][]student.Favorite
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Router   /preferences/{studentId}/favorites [post]
func addFavoriteHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in student.FavoriteRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.AddFavorite(c.Request.Context(), c.Param("studentId"), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"items": s.Favorites})
	}
}

// removeFavoriteHandler godoc
// @Summary  Remove a favorite; menuItemId "all" removes every entry of the stall
// @Tags     preferences
// @Accept   json
// @Produce  json
// @Param    studentId path string true "Student ID"
// @Param    body body student.FavoriteRequest true "Favorite"
// @Success  200 {object} map[string][]student.Favorite
// @Failure  404 {object} map[string]string
// @Router   /preferences/{studentId}/favorites [delete]
func removeFavoriteHandler(svc *student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in student.FavoriteRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.BadRequest(c, err)
			return
		}
		s, err := svc.RemoveFavorite(c.Request.Context(), c.Param("studentId"), in)
		if err != nil {
			httpx.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": s.Favorites})
	}
}
