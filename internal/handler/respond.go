package handler

import (
	"Parley/internal/apperr"
	"Parley/internal/auth"
	"Parley/internal/model"
	"Parley/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// writeError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is a 500 with a generic body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		status, message = http.StatusUnauthorized, err.Error()
	case apperr.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case apperr.KindAccessDenied:
		status, message = http.StatusForbidden, err.Error()
	case apperr.KindValidation:
		status, message = http.StatusBadRequest, err.Error()
	}

	c.JSON(status, gin.H{"error": message})
}

// parseObjectID validates a hex id from the request path or body.
func parseObjectID(value, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid " + field)
	}
	return id, nil
}

// currentUser resolves the authenticated identity subject to its user
// record.
func currentUser(c *gin.Context, users service.UserService) (*model.User, error) {
	subject, ok := auth.Subject(c)
	if !ok {
		return nil, apperr.Unauthenticated("unauthenticated")
	}
	return users.RequireBySubject(c.Request.Context(), subject)
}
