package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nithyasundar/bakehouse-backend/api/middleware"
	pkgerrors "github.com/nithyasundar/bakehouse-backend/pkg/errors"
)

// searchQueryMaxLen caps free-text search filters before they reach a
// LIKE clause.
const searchQueryMaxLen = 120

// contextUserID pulls the authenticated user id seeded by the auth
// middleware. Handlers behind the auth gate can treat a miss as a
// broken pipeline rather than a client error.
func contextUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session identity")
	}
	return id, nil
}
