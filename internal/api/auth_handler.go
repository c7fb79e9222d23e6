package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type LoginRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required"`
	Role     domain.Role `json:"role" binding:"required,oneof=trainer student"`
}

// AccountResponse carries the account tagged with its role. The embedded
// account never includes the password hash.
type AccountResponse struct {
	Type    domain.Role    `json:"type"`
	Account domain.Account `json:"account"`
}

type LoginResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

// Login godoc
// @Summary Log in as a student or trainer
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	acc, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthenticationFailed):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: Login failed for %s: %v", req.Email, err)
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	token, err := h.authService.IssueToken(acc)
	if err != nil {
		log.Printf("ERROR: Token generation failed for %s: %v", req.Email, err)
		abortWithError(c, http.StatusInternalServerError, "Could not process login")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: AccountResponse{Type: acc.Role(), Account: acc}})
}

// ProfileRequest edits the signed-in account. Omitted fields keep their value.
type ProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=80"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
	Photo string `json:"photo" binding:"omitempty,url"`
}

func handleAccountError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrInvalidProfile):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %s failed: %v", op, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// tokenAccount resolves the user ID and role carried by the token. It
// aborts the request and returns false when either is missing.
func tokenAccount(c *gin.Context) (string, domain.Role, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return "", "", false
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return "", "", false
	}
	return userID, role, true
}

// Me godoc
// @Summary The signed-in account
// @Tags Auth
// @Produce json
// @Success 200 {object} AccountResponse
// @Failure 404 {object} gin.H "Account no longer exists"
// @Security BearerAuth
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, role, ok := tokenAccount(c)
	if !ok {
		return
	}
	acc, err := h.authService.Account(c.Request.Context(), userID, role)
	if err != nil {
		handleAccountError(c, "Account", err)
		return
	}
	c.JSON(http.StatusOK, AccountResponse{Type: acc.Role(), Account: acc})
}

// UpdateProfile godoc
// @Summary Edit the signed-in account's profile (not persisted)
// @Tags Auth
// @Accept json
// @Produce json
// @Param profile body ProfileRequest true "Profile fields"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already in use"
// @Security BearerAuth
// @Router /me/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, role, ok := tokenAccount(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	acc, err := h.authService.UpdateProfile(c.Request.Context(), userID, role, domain.Profile(req))
	if err != nil {
		handleAccountError(c, "UpdateProfile", err)
		return
	}
	c.JSON(http.StatusOK, AccountResponse{Type: acc.Role(), Account: acc})
}
