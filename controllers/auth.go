package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Nonita16/viral-events-app/middleware"
	"github.com/Nonita16/viral-events-app/models"
	"github.com/Nonita16/viral-events-app/services/activity"
	"github.com/Nonita16/viral-events-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthController struct {
	DB              *gorm.DB
	activityService *activity.ActivityService
}

func NewAuthController(db *gorm.DB, activityService *activity.ActivityService) *AuthController {
	return &AuthController{
		DB:              db,
		activityService: activityService,
	}
}

// SignupRequest is the signup request body.
type SignupRequest struct {
	Username string `json:"username" binding:"required" example:"user123"`
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"user123"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse is returned by login, signup and anonymous sign-in.
type TokenResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":      user.ID,
		"uuid":         user.UUID,
		"is_anonymous": user.IsAnonymous,
		"exp":          time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

// Signup godoc
// @Summary      Create a full account
// @Description  Registers a new user and returns a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signup body SignupRequest true "signup payload"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  map[string]string
// @Router       /auth/signup [post]
func (ac *AuthController) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user := models.User{
		UUID:     uuid.NewString(),
		Username: req.Username,
		Email:    &req.Email,
		Password: req.Password,
	}

	if err := user.HashPassword(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already exists"})
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	ac.activityService.RecordActivity("user", fmt.Sprintf("user %q signed up", user.Username))

	c.JSON(http.StatusCreated, TokenResponse{Token: tokenString, User: user})
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates a full account and returns a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login body LoginRequest true "login payload"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var user models.User
	if err := ac.DB.Where("username = ? AND is_anonymous = ?", req.Username, false).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	if err := user.ComparePassword(req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: tokenString, User: user})
}

// Anonymous godoc
// @Summary      Create an anonymous session
// @Description  Issues an ephemeral identity used to attribute referral clicks before signup
// @Tags         auth
// @Produce      json
// @Success      201  {object}  TokenResponse
// @Failure      500  {object}  map[string]string
// @Router       /auth/anonymous [post]
func (ac *AuthController) Anonymous(c *gin.Context) {
	suffix, err := utils.GenerateRandomString(12)
	if err != nil {
		utils.LogError("failed to generate guest username", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create anonymous session"})
		return
	}

	user := models.User{
		UUID:        uuid.NewString(),
		Username:    "guest_" + suffix,
		IsAnonymous: true,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create anonymous session"})
		return
	}

	tokenString, err := issueToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Token: tokenString, User: user})
}

// Me godoc
// @Summary      Current user info
// @Tags         auth
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (ac *AuthController) Me(c *gin.Context) {
	userID := c.GetUint(middleware.CtxUserID)

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
