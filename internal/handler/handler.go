// Package handler exposes the services over HTTP.
package handler

import (
	"time"

	"kinship/backend/internal/account"
	"kinship/backend/internal/favorite"
	"kinship/backend/internal/hub"
	"kinship/backend/internal/relationship"
	"kinship/backend/internal/user"

	"github.com/sirupsen/logrus"
)

const defaultKeepAlive = 25 * time.Second

// Handler holds everything the HTTP handlers need.
type Handler struct {
	users         *user.Service
	accounts      *account.Service
	relationships *relationship.Engine
	favorites     *favorite.Service
	likes         *favorite.Service
	hub           *hub.Hub

	jwtSecret string
	jwtTTL    time.Duration
	keepAlive time.Duration
	log       logrus.FieldLogger
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Users         *user.Service
	Accounts      *account.Service
	Relationships *relationship.Engine
	Favorites     *favorite.Service
	Likes         *favorite.Service
	Hub           *hub.Hub

	JWTSecret string
	JWTTTL    time.Duration
	// KeepAlive is the interval between comment lines on idle event
	// streams. Zero means 25s.
	KeepAlive time.Duration
	Log       logrus.FieldLogger
}

// New returns a Handler over d.
func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	keepAlive := d.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &Handler{
		users:         d.Users,
		accounts:      d.Accounts,
		relationships: d.Relationships,
		favorites:     d.Favorites,
		likes:         d.Likes,
		hub:           d.Hub,
		jwtSecret:     d.JWTSecret,
		jwtTTL:        d.JWTTTL,
		keepAlive:     keepAlive,
		log:           log.WithField("component", "http"),
	}
}
