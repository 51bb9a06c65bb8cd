package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rollcall-dev/rollcall/db"
	"github.com/rollcall-dev/rollcall/internal/auth"
	"github.com/rollcall-dev/rollcall/internal/config"
	"github.com/rollcall-dev/rollcall/internal/models"
	"github.com/rollcall-dev/rollcall/internal/preferences"
	"github.com/rollcall-dev/rollcall/internal/types"
	"github.com/rollcall-dev/rollcall/internal/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// cfg is injected once from main; handlers never read the environment.
var cfg *config.Config

func Configure(c *config.Config) {
	cfg = c
}

func preferenceDefaults() preferences.Defaults {
	return preferences.Defaults{
		NotificationTime: cfg.DefaultNotificationTime,
		TotalSchoolDays:  cfg.DefaultTotalSchoolDays,
	}
}

type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func CreateUser(ctx *gin.Context) {
	var user CreateUserRequest

	if err := ctx.BindJSON(&user); err != nil {
		log.Errorf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var existingUser models.User

	err := db.DB.Where("username = ?", user.Username).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("This username %s already exists, choose a different one", user.Username)})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("Database error when checking existing username: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = db.DB.Where("email = ?", user.Email).First(&existingUser).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("This email %s already exists, choose a different one", user.Email)})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Errorf("Database error when checking existing email: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)

	if err != nil {
		log.Errorf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	newUser := models.User{
		Username:     user.Username,
		FirstName:    strings.TrimSpace(user.FirstName),
		LastName:     strings.TrimSpace(user.LastName),
		Email:        user.Email,
		PasswordHash: string(passwordHash),
	}

	if err := db.DB.Create(&newUser).Error; err != nil {
		log.Errorf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// Preferences are bootstrapped here, as an explicit registration step.
	if _, err := preferences.GetOrCreate(db.DB, newUser.ID, preferenceDefaults()); err != nil {
		log.Errorf("Failed to bootstrap preferences for user %d: %v", newUser.ID, err)
	}

	token, err := auth.GenerateJWT(newUser.ID, newUser.Username)

	if err != nil {
		log.Errorf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, token)

	ctx.JSON(http.StatusCreated, gin.H{
		"user": types.UserResponse{
			ID:        newUser.ID,
			Username:  newUser.Username,
			FirstName: newUser.FirstName,
			LastName:  newUser.LastName,
			Email:     newUser.Email,
		},
	})
}

func LoginUser(ctx *gin.Context) {
	var user LoginUserRequest

	if err := ctx.BindJSON(&user); err != nil {
		log.Errorf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var existingUser models.User

	err := db.DB.Where("username = ?", strings.TrimSpace(user.Username)).First(&existingUser).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password"})
			return
		}
		log.Errorf("Database error when fetching user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(user.Password))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateJWT(existingUser.ID, existingUser.Username)

	if err != nil {
		log.Errorf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	setSessionCookie(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:        existingUser.ID,
			Username:  existingUser.Username,
			FirstName: existingUser.FirstName,
			LastName:  existingUser.LastName,
			Email:     existingUser.Email,
		},
	})
}

func Me(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.UserResponse{
			ID:        currentUser.ID,
			Username:  currentUser.Username,
			FirstName: currentUser.FirstName,
			LastName:  currentUser.LastName,
			Email:     currentUser.Email,
		},
	})
}

func LogoutUser(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ChangeUsername, ChangeFirstName and ChangeLastName mirror the settings
// page, which edits one field at a time. Business failures answer 200 with
// success=false.
func ChangeUsername(ctx *gin.Context) {
	changeUserField(ctx, "username", func(value string) (string, bool) {
		var existing models.User

		if err := db.DB.Where("username = ?", value).First(&existing).Error; err == nil {
			return fmt.Sprintf("This username %s already exists, choose a different one", value), false
		}

		return "", true
	})
}

func ChangeFirstName(ctx *gin.Context) {
	changeUserField(ctx, "first_name", nil)
}

func ChangeLastName(ctx *gin.Context) {
	changeUserField(ctx, "last_name", nil)
}

func changeUserField(ctx *gin.Context, field string, validate func(string) (string, bool)) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	value := strings.TrimSpace(formOrJSONValue(ctx, field))

	if value == "" {
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": fmt.Sprintf("The %s field cannot be empty", field)})
		return
	}

	if validate != nil {
		if message, ok := validate(value); !ok {
			ctx.JSON(http.StatusOK, gin.H{"success": false, "message": message})
			return
		}
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update(field, value).Error; err != nil {
		log.Errorf("Failed to update %s for user %d: %v", field, userID, err)
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": "Could not update " + field})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Updated " + field + " successfully"})
}

func setSessionCookie(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(auth.SessionTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
