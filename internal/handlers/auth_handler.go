package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/AbhiRanjan33/mock-interview-platform/internal/middleware"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/models"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/repositories"
	"github.com/AbhiRanjan33/mock-interview-platform/internal/utils"
)

// AuthHandler manages sign-up, sign-in and session endpoints.
type AuthHandler struct {
	Repo      *repositories.UserRepository
	JWTSecret string
	Logger    *zap.Logger
}

func NewAuthHandler(repo *repositories.UserRepository, secret string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{Repo: repo, JWTSecret: secret, Logger: logger}
}

func (h *AuthHandler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SignUpRequest](r)

	if existing, _ := h.Repo.GetUserByEmail(req.Email); existing != nil {
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "email_taken",
			Message: "This email is already in use.",
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "hash_failure",
			Message: "Failed to create an account.",
		})
		return
	}

	uid := req.UID
	if uid == "" {
		uid = uuid.NewString()
	}

	user := &models.User{UID: uid, Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	if err := h.Repo.CreateUser(user); err != nil {
		h.Logger.Error("failed to create user", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "create_failure",
			Message: "Failed to create an account.",
		})
		return
	}

	utils.JSON(w, http.StatusCreated, models.SuccessResponse{
		Success: true,
		ID:      user.UID,
		Message: "Account created successfully. Please sign in.",
	})
}

func (h *AuthHandler) SignInHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SignInRequest](r)

	user, err := h.Repo.GetUserByEmail(req.Email)
	if err != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "User does not exist. Create an account instead.",
		})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{
			Code:    "invalid_credentials",
			Message: "Invalid email or password.",
		})
		return
	}

	token, err := utils.IssueSessionToken(user.UID, h.JWTSecret)
	if err != nil {
		h.Logger.Error("failed to sign session token", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "token_failure",
			Message: "Failed to log into an account.",
		})
		return
	}

	utils.SetSessionCookie(w, token)
	utils.JSON(w, http.StatusOK, models.SuccessResponse{Success: true, ID: user.UID})
}

func (h *AuthHandler) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	utils.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// MeHandler returns the user bound to the current session.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	utils.JSON(w, http.StatusOK, map[string]string{
		"id":    user.UID,
		"name":  user.Name,
		"email": user.Email,
	})
}
