package handler

import (
	"context"
	"net/http"
	"time"

	"kinship/backend/internal/models"
	"kinship/backend/internal/relationship"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// RequestResponse is one request record with both usernames resolved.
type RequestResponse struct {
	ID        uuid.UUID            `json:"id"`
	From      string               `json:"from" example:"alice"`
	FromID    uuid.UUID            `json:"from_id"`
	To        string               `json:"to" example:"bob"`
	ToID      uuid.UUID            `json:"to_id"`
	Kind      models.Kind          `json:"kind" example:"friend"`
	Status    models.RequestStatus `json:"status" example:"pending"`
	CreatedAt time.Time            `json:"created_at"`
}

// RelationshipResponse is a relationship seen from the caller's side.
type RelationshipResponse struct {
	User   string      `json:"user" example:"bob"`
	UserID uuid.UUID   `json:"user_id"`
	Kind   models.Kind `json:"kind" example:"friend"`
	Since  time.Time   `json:"since"`
}

// RequestMessage wraps a single request record.
type RequestMessage struct {
	Msg     string          `json:"msg" example:"Request sent"`
	Request RequestResponse `json:"request"`
}

// RelationshipMessage wraps a single relationship.
type RelationshipMessage struct {
	Msg          string               `json:"msg" example:"Request accepted"`
	Relationship RelationshipResponse `json:"relationship"`
}

// RequestListMessage wraps a list of request records.
type RequestListMessage struct {
	Msg      string            `json:"msg" example:"Requests"`
	Requests []RequestResponse `json:"requests"`
}

// RelationshipListMessage wraps a list of relationships.
type RelationshipListMessage struct {
	Msg           string                 `json:"msg" example:"Relationships"`
	Relationships []RelationshipResponse `json:"relationships"`
}

// endregion

func (h *Handler) requestResponses(ctx context.Context, reqs ...models.Request) ([]RequestResponse, error) {
	ids := make([]uuid.UUID, 0, 2*len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.From, r.To)
	}
	names, err := h.users.Usernames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequestResponse{
			ID:        r.ID,
			From:      names[r.From],
			FromID:    r.From,
			To:        names[r.To],
			ToID:      r.To,
			Kind:      r.Kind,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (h *Handler) relationshipResponses(ctx context.Context, cps ...relationship.Counterpart) ([]RelationshipResponse, error) {
	ids := make([]uuid.UUID, 0, len(cps))
	for _, cp := range cps {
		ids = append(ids, cp.UserID)
	}
	names, err := h.users.Usernames(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]RelationshipResponse, 0, len(cps))
	for _, cp := range cps {
		out = append(out, RelationshipResponse{User: names[cp.UserID], UserID: cp.UserID, Kind: cp.Kind, Since: cp.Since})
	}
	return out, nil
}

func (h *Handler) respondRequest(c *gin.Context, status int, msg string, req *models.Request) {
	resp, err := h.requestResponses(c.Request.Context(), *req)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(status, RequestMessage{Msg: msg, Request: resp[0]})
}

func (h *Handler) respondRelationship(c *gin.Context, msg string, me uuid.UUID, rel *models.Relationship) {
	cp := relationship.Counterpart{UserID: rel.Other(me), Kind: rel.Kind, Since: rel.CreatedAt}
	resp, err := h.relationshipResponses(c.Request.Context(), cp)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RelationshipMessage{Msg: msg, Relationship: resp[0]})
}

// pairFromRequest returns the caller, the user named by path parameter
// param and the requested kind, defaulting to friend.
func (h *Handler) pairFromRequest(c *gin.Context, param string) (me, other uuid.UUID, kind models.Kind, err error) {
	if me, err = h.sessionUser(c); err != nil {
		return
	}
	if kind, err = kindFromRequest(c, models.KindFriend); err != nil {
		return
	}
	other, err = h.resolveParam(c, param)
	return
}

// SendRequest godoc
// @Summary      Send a relationship request
// @Description  Sends a friend or partner request to another user. Partner requests need an existing friendship.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        to    path      string     true   "Username of the recipient"
// @Param        kind  query     string     false  "friend or partner" default(friend)
// @Param        input body      KindInput  false  "Kind, when not given in the query"
// @Success      201   {object}  RequestMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Already related, request exists, self request or partner without friendship"
// @Failure      404   {object}  ErrorResponse "User not found"
// @Router       /relationships/requests/{to} [post]
func (h *Handler) SendRequest(c *gin.Context) {
	me, to, kind, err := h.pairFromRequest(c, "to")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	req, err := h.relationships.SendRequest(c.Request.Context(), me, to, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.respondRequest(c, http.StatusCreated, "Request sent", req)
}

// AcceptRequest godoc
// @Summary      Accept a relationship request
// @Description  Accepts the pending request the named user sent to the caller.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        from  path      string     true   "Username of the requester"
// @Param        kind  query     string     false  "friend or partner" default(friend)
// @Param        input body      KindInput  false  "Kind, when not given in the query"
// @Success      200   {object}  RelationshipMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Already related"
// @Failure      404   {object}  ErrorResponse "User or request not found"
// @Router       /relationships/accept/{from} [put]
func (h *Handler) AcceptRequest(c *gin.Context) {
	me, from, kind, err := h.pairFromRequest(c, "from")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	rel, err := h.relationships.AcceptRequest(c.Request.Context(), from, me, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.respondRelationship(c, "Request accepted", me, rel)
}

// RejectRequest godoc
// @Summary      Reject a relationship request
// @Description  Rejects the pending request the named user sent to the caller. The sender may ask again later.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        from  path      string     true   "Username of the requester"
// @Param        kind  query     string     false  "friend or partner" default(friend)
// @Param        input body      KindInput  false  "Kind, when not given in the query"
// @Success      200   {object}  RequestMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "User or request not found"
// @Router       /relationships/reject/{from} [put]
func (h *Handler) RejectRequest(c *gin.Context) {
	me, from, kind, err := h.pairFromRequest(c, "from")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	req, err := h.relationships.RejectRequest(c.Request.Context(), from, me, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.respondRequest(c, http.StatusOK, "Request rejected", req)
}

// RemoveRequest godoc
// @Summary      Withdraw a relationship request
// @Description  Deletes the pending request the caller sent to the named user.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        to    path      string     true   "Username of the recipient"
// @Param        kind  query     string     false  "friend or partner" default(friend)
// @Param        input body      KindInput  false  "Kind, when not given in the query"
// @Success      200   {object}  RequestMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "User or request not found"
// @Router       /relationships/requests/{to} [delete]
func (h *Handler) RemoveRequest(c *gin.Context) {
	me, to, kind, err := h.pairFromRequest(c, "to")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	req, err := h.relationships.RemoveRequest(c.Request.Context(), me, to, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.respondRequest(c, http.StatusOK, "Request removed", req)
}

// RemoveRelationship godoc
// @Summary      Remove a relationship
// @Description  Ends the caller's relationship of the given kind with the named user.
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        target path      string     true   "Username of the other user"
// @Param        kind   query     string     false  "friend or partner" default(friend)
// @Param        input  body      KindInput  false  "Kind, when not given in the query"
// @Success      200    {object}  RelationshipMessage
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      404    {object}  ErrorResponse "User or relationship not found"
// @Router       /relationships/{target} [delete]
func (h *Handler) RemoveRelationship(c *gin.Context) {
	me, target, kind, err := h.pairFromRequest(c, "target")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	rel, err := h.relationships.RemoveRelationship(c.Request.Context(), me, target, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	h.respondRelationship(c, "Relationship removed", me, rel)
}

// GetRelationships godoc
// @Summary      List relationships
// @Description  Lists the caller's relationships, optionally of one kind.
// @Tags         relationships
// @Produce      json
// @Security     BearerAuth
// @Param        kind  query     string  false  "friend or partner; omit for all"
// @Success      200   {object}  RelationshipListMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /relationships [get]
func (h *Handler) GetRelationships(c *gin.Context) {
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	kind, err := kindFromRequest(c, "")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	cps, err := h.relationships.GetRelationships(c.Request.Context(), me, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	resp, err := h.relationshipResponses(c.Request.Context(), cps...)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RelationshipListMessage{Msg: "Relationships", Relationships: resp})
}

// GetRequests godoc
// @Summary      List requests
// @Description  Lists every request record, of any status, sent or received by the caller.
// @Tags         relationships
// @Produce      json
// @Security     BearerAuth
// @Param        kind  query     string  false  "friend or partner; omit for all"
// @Success      200   {object}  RequestListMessage
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /relationships/requests [get]
func (h *Handler) GetRequests(c *gin.Context) {
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	kind, err := kindFromRequest(c, "")
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	reqs, err := h.relationships.GetRequests(c.Request.Context(), me, kind)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	resp, err := h.requestResponses(c.Request.Context(), reqs...)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, RequestListMessage{Msg: "Requests", Requests: resp})
}
