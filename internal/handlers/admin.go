package handlers

import (
	"errors"
	"net/http"

	"refik/internal/auth"
	"refik/internal/database"
	"refik/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type adminEntry struct {
	ID                    uuid.UUID `json:"id"`
	Email                 string    `json:"email"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	HasAnnouncementAccess bool      `json:"has_announcement_access"`
}

// ListAdmins returns every account holding the admin role, flagged with
// whether it also holds announcement access.
func ListAdmins(c *gin.Context) {
	db := database.GetDB()

	var adminRoles []models.UserRole
	if err := db.Where("role = ?", models.RoleAdmin).Find(&adminRoles).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch admin roles", err)
		return
	}

	var annRoles []models.UserRole
	if err := db.Where("role = ?", models.RoleAnnouncementAdmin).Find(&annRoles).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch announcement roles", err)
		return
	}
	annAdminIDs := make(map[uuid.UUID]bool, len(annRoles))
	for _, r := range annRoles {
		annAdminIDs[r.UserID] = true
	}

	admins := make([]adminEntry, 0, len(adminRoles))
	for _, role := range adminRoles {
		var account models.Account
		if err := db.Where("id = ?", role.UserID).First(&account).Error; err != nil {
			continue
		}
		admins = append(admins, adminEntry{
			ID:                    account.ID,
			Email:                 account.Email,
			FirstName:             account.FirstName,
			LastName:              account.LastName,
			HasAnnouncementAccess: annAdminIDs[account.ID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// AddAdmin grants the admin role to the account registered with the given
// email address.
func AddAdmin(c *gin.Context) {
	var request models.AddAdminRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	db := database.GetDB()
	var account models.Account
	if err := db.Where("email = ?", request.Email).First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bu e-posta ile kayıtlı kullanıcı bulunamadı"})
		return
	}

	role := models.UserRole{UserID: account.ID, Role: models.RoleAdmin}
	if err := db.Create(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bu kullanıcı zaten admin"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to grant admin role", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RemoveAdmin revokes the admin role. Admins cannot remove themselves.
func RemoveAdmin(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	callerID, _ := auth.CurrentUserID(c)
	if targetID == callerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kendinizi admin listesinden çıkaramazsınız"})
		return
	}

	db := database.GetDB()
	if err := db.Where("user_id = ? AND role = ?", targetID, models.RoleAdmin).
		Delete(&models.UserRole{}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to revoke admin role", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListUsers returns every account for the admin user screen.
func ListUsers(c *gin.Context) {
	var accounts []models.Account
	if err := database.GetDB().Order("created_at desc").Find(&accounts).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": accounts})
}

// CreateUser provisions an account with a password (for users without a
// Google identity) and its empty reminder-preference profile.
func CreateUser(c *gin.Context) {
	var request models.CreateUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-posta ve şifre gereklidir"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to hash password", err)
		return
	}

	db := database.GetDB()
	account := models.Account{
		Email:         request.Email,
		EmailVerified: true,
		HashedPass:    string(hashed),
		FirstName:     request.FirstName,
		LastName:      request.LastName,
	}
	if err := db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Bu e-posta zaten kayıtlı"})
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	profile := models.Profile{
		ID:        account.ID,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	}
	if err := db.Create(&profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user_id": account.ID})
}

// DeleteUser removes an account and everything hanging off it. Admins
// cannot delete themselves.
func DeleteUser(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	callerID, _ := auth.CurrentUserID(c)
	if targetID == callerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kendinizi silemezsiniz"})
		return
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", targetID).Delete(&models.RSVP{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", targetID).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", targetID).Delete(&models.Account{}).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
