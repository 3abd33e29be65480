package utils

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/internal/types"
)

var errNoAuthenticatedUser = errors.New("no authenticated user in request context")

// GetCurrentUser returns the user the auth middleware stored on the request
// context.
func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, errNoAuthenticatedUser
	}

	user, ok := value.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("unexpected value of type %T under %q", value, types.ContextUserKey)
	}

	return user, nil
}

// GetCurrentUserID is a shorthand for handlers that only need the id.
func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
