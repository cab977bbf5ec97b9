package handlers

import (
	"net/http"

	"refik/internal/database"
	"refik/internal/logger"
	"refik/internal/models"
	"refik/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lookup tables (cities, venues, categories) share the same simple CRUD
// shape; only venues carry extra behavior (place validation).

func GetCities(c *gin.Context) {
	var cities []models.City
	if err := database.GetDB().Order("name").Find(&cities).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch cities", err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func GetVenues(c *gin.Context) {
	var venues []models.Venue
	if err := database.GetDB().Preload("City").Order("name").Find(&venues).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch venues", err)
		return
	}
	c.JSON(http.StatusOK, venues)
}

func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.GetDB().Order("name").Find(&categories).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

func CreateCity(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}
	city := models.City{Name: req.Name}
	if err := database.GetDB().Create(&city).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create city", err)
		return
	}
	c.JSON(http.StatusCreated, city)
}

func DeleteCity(c *gin.Context) {
	deleteByID(c, &models.City{}, "city")
}

func CreateCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}
	category := models.Category{Name: req.Name}
	if err := database.GetDB().Create(&category).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create category", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func DeleteCategory(c *gin.Context) {
	deleteByID(c, &models.Category{}, "category")
}

type venueRequest struct {
	Name    string     `json:"name" binding:"required"`
	Address string     `json:"address"`
	PlaceID string     `json:"place_id"`
	CityID  *uuid.UUID `json:"city_id"`
}

// CreateVenue creates a venue. When a place id is supplied it is validated
// against Google Places and the canonical name/address win over the input.
func CreateVenue(c *gin.Context) {
	var req venueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	venue := models.Venue{
		Name:    req.Name,
		Address: req.Address,
		PlaceID: req.PlaceID,
		CityID:  req.CityID,
	}

	if req.PlaceID != "" {
		place, err := services.ValidatePlace(req.PlaceID)
		if err != nil {
			logger.Log.Warn("place validation failed, keeping submitted fields",
				zap.String("place_id", req.PlaceID), zap.Error(err))
		} else {
			venue.Name = place.Name
			venue.Address = place.FormattedAddress
		}
	}

	if err := database.GetDB().Create(&venue).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create venue", err)
		return
	}
	c.JSON(http.StatusCreated, venue)
}

func DeleteVenue(c *gin.Context) {
	deleteByID(c, &models.Venue{}, "venue")
}

func deleteByID(c *gin.Context, model interface{}, label string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + label + " id"})
		return
	}
	if err := database.GetDB().Delete(model, "id = ?", id).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete "+label, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
