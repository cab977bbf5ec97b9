package handlers

import (
	"errors"
	"net/http"
	"time"

	"refik/internal/database"
	"refik/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetEvents lists events with optional filters. By default only upcoming
// events are returned, matching the discovery page.
func GetEvents(c *gin.Context) {
	db := database.GetDB()
	var events []models.Event

	query := db.Preload("City").Preload("Venue").Preload("Category")

	if c.Query("all") == "" {
		query = query.Where("date >= ?", time.Now().Format("2006-01-02"))
	}
	if cityID := c.Query("city_id"); cityID != "" {
		query = query.Where("city_id = ?", cityID)
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		query = query.Where("date >= ?", dateFrom)
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		query = query.Where("date <= ?", dateTo)
	}

	if err := query.Order("date asc, time asc").Find(&events).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch events", err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent returns one event with its RSVP list and the total headcount
// (attendees plus their guests).
func GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	db := database.GetDB()
	var event models.Event
	if err := db.Preload("City").Preload("Venue").Preload("Category").
		Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to fetch event", err)
		return
	}

	var rsvps []models.RSVP
	if err := db.Where("event_id = ?", id).Find(&rsvps).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch RSVPs", err)
		return
	}

	totalAttendees := 0
	for _, r := range rsvps {
		if r.Status == models.RSVPAttending {
			totalAttendees += 1 + r.GuestCount
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"event":           event,
		"rsvps":           rsvps,
		"total_attendees": totalAttendees,
	})
}

// CreateEvent handles admin event creation.
func CreateEvent(c *gin.Context) {
	var request models.CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	event, ok := eventFromRequest(c, &request)
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Create(event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEvent handles admin event updates.
func UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var request models.CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	updated, ok := eventFromRequest(c, &request)
	if !ok {
		return
	}

	db := database.GetDB()
	var event models.Event
	if err := db.Where("id = ?", id).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	event.Title = updated.Title
	event.Description = updated.Description
	event.Date = updated.Date
	event.Time = updated.Time
	event.CityID = updated.CityID
	event.VenueID = updated.VenueID
	event.CategoryID = updated.CategoryID

	if err := db.Save(&event).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update event", err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles admin event deletion.
func DeleteEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	db := database.GetDB()
	if err := db.Delete(&models.Event{}, "id = ?", id).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete event", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// eventFromRequest validates the date and time formats and builds an Event.
func eventFromRequest(c *gin.Context, request *models.CreateEventRequest) (*models.Event, bool) {
	day, err := time.Parse("2006-01-02", request.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in 2006-01-02 format"})
		return nil, false
	}
	if _, err := time.Parse("15:04", request.Time); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "time must be in 15:04 format"})
		return nil, false
	}

	return &models.Event{
		Title:       request.Title,
		Description: request.Description,
		Date:        datatypes.Date(day),
		Time:        request.Time,
		CityID:      request.CityID,
		VenueID:     request.VenueID,
		CategoryID:  request.CategoryID,
	}, true
}
