package handler

import (
	"kinship/backend/internal/apperr"
	"kinship/backend/internal/auth"
	"kinship/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// KindInput is the optional JSON body of the mutating relationship routes.
type KindInput struct {
	Kind string `json:"kind" example:"friend"`
}

// kindFromRequest reads the kind from the query string, then from a JSON
// body. fallback applies when neither carries one.
func kindFromRequest(c *gin.Context, fallback models.Kind) (models.Kind, error) {
	raw := c.Query("kind")
	if raw == "" && c.Request.ContentLength > 0 {
		var input KindInput
		if err := c.ShouldBindJSON(&input); err != nil {
			return "", apperr.Invalid("request body must be a JSON object like {\"kind\": \"friend\"}")
		}
		raw = input.Kind
	}
	if raw == "" {
		return fallback, nil
	}
	return models.ParseKind(raw)
}

// sessionUser returns the authenticated caller. The auth middleware runs
// first on every route that calls it. A token outliving its account is
// rejected.
func (h *Handler) sessionUser(c *gin.Context) (uuid.UUID, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("authentication required")
	}
	if _, err := h.users.Get(c.Request.Context(), id); err != nil {
		if apperr.IsNotFound(err) {
			return uuid.Nil, apperr.Unauthorized("account no longer exists")
		}
		return uuid.Nil, err
	}
	return id, nil
}

// resolveParam maps the username in path parameter name to its identifier.
func (h *Handler) resolveParam(c *gin.Context, name string) (uuid.UUID, error) {
	return h.users.Resolve(c.Request.Context(), c.Param(name))
}
