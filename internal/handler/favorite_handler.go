package handler

import (
	"net/http"
	"time"

	"kinship/backend/internal/favorite"
	"kinship/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// MarkResponse is one item in a favorites or likes collection.
type MarkResponse struct {
	ItemType  models.ItemType `json:"item_type" example:"post"`
	ItemID    string          `json:"item_id"`
	CreatedAt *time.Time      `json:"created_at,omitempty"`
}

// MarkListMessage wraps a collection listing.
type MarkListMessage struct {
	Msg   string         `json:"msg" example:"favorites"`
	Items []MarkResponse `json:"items"`
}

// MarkStateMessage reports whether an item is in the caller's collection.
type MarkStateMessage struct {
	Msg    string       `json:"msg" example:"Added to favorites"`
	Item   MarkResponse `json:"item"`
	Marked bool         `json:"marked"`
}

// CountResponse reports how many users marked an item.
type CountResponse struct {
	ItemType models.ItemType `json:"item_type" example:"post"`
	ItemID   string          `json:"item_id"`
	Count    int64           `json:"count"`
}

func markResponse(m models.Mark) MarkResponse {
	resp := MarkResponse{ItemType: m.ItemType, ItemID: m.ItemID}
	if !m.CreatedAt.IsZero() {
		at := m.CreatedAt
		resp.CreatedAt = &at
	}
	return resp
}

// AddMark godoc
// @Summary      Add an item to a collection
// @Description  Adds a post or reply to the caller's favorites or likes.
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "post or reply"
// @Param        id   path string true "Item ID"
// @Success      201  {object}  MarkStateMessage
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Already in the collection"
// @Router       /favorites/{type}/{id} [post]
// @Router       /likes/{type}/{id} [post]
func (h *Handler) AddMark(svc *favorite.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, err := h.sessionUser(c)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		itemType, err := models.ParseItemType(c.Param("type"))
		if err != nil {
			h.abortWithError(c, err)
			return
		}

		mark, err := svc.Add(c.Request.Context(), me, itemType, c.Param("id"))
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, MarkStateMessage{
			Msg:    "Added to " + string(svc.Collection()),
			Item:   markResponse(*mark),
			Marked: true,
		})
	}
}

// RemoveMark godoc
// @Summary      Remove an item from a collection
// @Description  Removes a post or reply from the caller's favorites or likes.
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "post or reply"
// @Param        id   path string true "Item ID"
// @Success      200  {object}  MarkStateMessage
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Not in the collection"
// @Router       /favorites/{type}/{id} [delete]
// @Router       /likes/{type}/{id} [delete]
func (h *Handler) RemoveMark(svc *favorite.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, err := h.sessionUser(c)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		itemType, err := models.ParseItemType(c.Param("type"))
		if err != nil {
			h.abortWithError(c, err)
			return
		}

		itemID := c.Param("id")
		if err := svc.Remove(c.Request.Context(), me, itemType, itemID); err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, MarkStateMessage{
			Msg:  "Removed from " + string(svc.Collection()),
			Item: MarkResponse{ItemType: itemType, ItemID: itemID},
		})
	}
}

// ListMarks godoc
// @Summary      List a collection
// @Description  Lists the caller's favorites or likes, optionally of one item type.
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "post or reply"
// @Success      200  {object}  MarkListMessage
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /favorites [get]
// @Router       /likes [get]
func (h *Handler) ListMarks(svc *favorite.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		me, err := h.sessionUser(c)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		var itemType models.ItemType
		if raw := c.Query("type"); raw != "" {
			if itemType, err = models.ParseItemType(raw); err != nil {
				h.abortWithError(c, err)
				return
			}
		}

		marks, err := svc.List(c.Request.Context(), me, itemType)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		items := make([]MarkResponse, 0, len(marks))
		for _, m := range marks {
			items = append(items, markResponse(m))
		}
		c.JSON(http.StatusOK, MarkListMessage{Msg: string(svc.Collection()), Items: items})
	}
}

// CountMarks godoc
// @Summary      Count likes of an item
// @Description  Returns how many users liked a post or reply.
// @Tags         favorites
// @Produce      json
// @Param        type path string true "post or reply"
// @Param        id   path string true "Item ID"
// @Success      200  {object}  CountResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /likes/{type}/{id}/count [get]
func (h *Handler) CountMarks(svc *favorite.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemType, err := models.ParseItemType(c.Param("type"))
		if err != nil {
			h.abortWithError(c, err)
			return
		}

		itemID := c.Param("id")
		n, err := svc.Count(c.Request.Context(), itemType, itemID)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, CountResponse{ItemType: itemType, ItemID: itemID, Count: n})
	}
}
