package handler

import (
	"net/http"
	"time"

	"kinship/backend/internal/apperr"
	"kinship/backend/internal/auth"
	"kinship/backend/internal/models"
	"kinship/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username" example:"alice"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUserResponse defines the structure for a user's public profile.
// Relationships lists the kinds linking the user to the caller.
type PublicUserResponse struct {
	ID            uuid.UUID     `json:"id"`
	Username      string        `json:"username" example:"bob"`
	Relationships []models.Kind `json:"relationships,omitempty"`
}

// UpdateUserInput changes the caller's account. Empty fields are left
// unchanged.
type UpdateUserInput struct {
	Username string `json:"username" example:"alicia"`
	Password string `json:"password" example:"new-password"`
}

// UserMessage wraps the caller's own profile.
type UserMessage struct {
	Msg  string              `json:"msg" example:"User updated"`
	User PrivateUserResponse `json:"user"`
}

// UserListMessage wraps a list of public profiles.
type UserListMessage struct {
	Msg   string               `json:"msg" example:"Users"`
	Users []PublicUserResponse `json:"users"`
}

// MessageResponse carries a bare confirmation.
type MessageResponse struct {
	Msg string `json:"msg" example:"User deleted"`
}

// endregion

func privateUserResponse(u *models.User) PrivateUserResponse {
	return PrivateUserResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func (h *Handler) issueToken(c *gin.Context, status int, user *models.User) {
	token, err := jwt.GenerateToken(h.jwtSecret, user.ID, h.jwtTTL)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(status, TokenResponse{Token: token})
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username taken"
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithError(c, apperr.Invalid(err.Error()))
		return
	}

	user, err := h.users.Register(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.issueToken(c, http.StatusCreated, user)
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /auth/login [post]
func (h *Handler) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithError(c, apperr.Invalid(err.Error()))
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.issueToken(c, http.StatusOK, user)
}

// GetMe godoc
// @Summary      Get current user
// @Description  Returns the profile of the authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), me)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, privateUserResponse(user))
}

// SearchUsers godoc
// @Summary      Search users
// @Description  Lists users whose username contains q, ignoring case. The caller is left out and every result carries how it is related to the caller.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Username fragment"
// @Success      200  {object}  UserListMessage
// @Failure      401  {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	users, err := h.users.Search(ctx, c.Query("q"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	counterparts, err := h.relationships.GetRelationships(ctx, me, "")
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	kinds := make(map[uuid.UUID][]models.Kind, len(counterparts))
	for _, cp := range counterparts {
		kinds[cp.UserID] = append(kinds[cp.UserID], cp.Kind)
	}

	out := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		if u.ID == me {
			continue
		}
		out = append(out, PublicUserResponse{ID: u.ID, Username: u.Username, Relationships: kinds[u.ID]})
	}
	c.JSON(http.StatusOK, UserListMessage{Msg: "Users", Users: out})
}

// UpdateMe godoc
// @Summary      Update current user
// @Description  Changes the username and/or password of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateUserInput true "Fields to change"
// @Success      200  {object}  UserMessage
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username taken"
// @Router       /users/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.abortWithError(c, apperr.Invalid(err.Error()))
		return
	}

	user, err := h.users.Update(c.Request.Context(), me, input.Username, input.Password)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserMessage{Msg: "User updated", User: privateUserResponse(user)})
}

// DeleteMe godoc
// @Summary      Delete current user
// @Description  Deletes the authenticated user with their relationships, request history, favorites and likes. Outstanding tokens stop working.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	if _, err := h.accounts.Delete(c.Request.Context(), me); err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Msg: "User deleted"})
}

// GetUser godoc
// @Summary      Get a user by username
// @Description  Returns a public profile. Authenticated callers also see how they are related to the user.
// @Tags         users
// @Produce      json
// @Param        username path string true "Username"
// @Success      200  {object}  PublicUserResponse
// @Failure      404  {object}  ErrorResponse "User not found"
// @Router       /users/{username} [get]
func (h *Handler) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	target, err := h.resolveParam(c, "username")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := PublicUserResponse{ID: target, Username: c.Param("username")}
	if viewer, ok := auth.UserID(c); ok && viewer != target {
		kinds, err := h.relationships.RelatedKinds(ctx, viewer, target)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		resp.Relationships = kinds
	}
	c.JSON(http.StatusOK, resp)
}
