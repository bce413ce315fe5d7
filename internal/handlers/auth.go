package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tasklight-dev/tasklight/internal/auth"
	"github.com/tasklight-dev/tasklight/internal/models"
	"github.com/tasklight-dev/tasklight/internal/store"
	"github.com/tasklight-dev/tasklight/internal/types"
	"github.com/tasklight-dev/tasklight/internal/utils"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password"`
	ProfilePic  *string `json:"profile_pic"`
	NotifyPush  *bool   `json:"notify_push"`
	NotifyEmail *bool   `json:"notify_email"`
	Theme       *string `json:"theme"`
	DefaultView *string `json:"default_view"`
	Language    *string `json:"language"`
}

type AuthHandler struct {
	users store.UserStore
}

func NewAuthHandler(users store.UserStore) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register creates the account and logs the user in: the response carries a
// session token alongside the public profile.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all fields"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	passwordHash, err := auth.HashPassword(body.Password)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := models.User{
		Username:     body.Username,
		Email:        body.Email,
		PasswordHash: passwordHash,
	}

	if err := h.users.Create(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		log.Printf("Failed to create user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := auth.GenerateJWT(user.ID)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user": types.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide all fields"})
		return
	}

	body.Email = strings.ToLower(strings.TrimSpace(body.Email))

	user, err := h.users.ByEmail(body.Email)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, body.Password) {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := auth.GenerateJWT(user.ID)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": types.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.users.ByID(userID)

	if err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": types.ProfileResponse{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			CreatedAt:   user.CreatedAt,
			ProfilePic:  user.ProfilePic,
			NotifyPush:  user.NotifyPush,
			NotifyEmail: user.NotifyEmail,
			Theme:       user.Theme,
			DefaultView: user.DefaultView,
			Language:    user.Language,
		},
	})
}

// UpdateMe applies only the fields present in the request body; everything
// omitted keeps its current value.
func (h *AuthHandler) UpdateMe(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	patch := store.UserPatch{
		Username:    body.Username,
		ProfilePic:  body.ProfilePic,
		NotifyPush:  body.NotifyPush,
		NotifyEmail: body.NotifyEmail,
		Theme:       body.Theme,
		DefaultView: body.DefaultView,
		Language:    body.Language,
	}

	if body.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*body.Email))
		patch.Email = &email
	}

	if body.Password != nil {
		passwordHash, err := auth.HashPassword(*body.Password)

		if err != nil {
			log.Printf("Failed to hash password: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		patch.PasswordHash = &passwordHash
	}

	if err := h.users.Update(userID, patch); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

// ForgotPassword acknowledges without acting. Email delivery is not wired
// up; the response deliberately does not reveal whether the address exists.
func (h *AuthHandler) ForgotPassword(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an email"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "If this email is registered, a reset link has been sent."})
}

// ResetPassword is a placeholder matching ForgotPassword; there is no reset
// token flow to verify yet.
func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
