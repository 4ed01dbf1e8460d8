package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/herbloom/storefront/internal/errors"
	"github.com/herbloom/storefront/internal/types"
)

// CustomerSessionMiddleware extracts the customer session token and places
// it on the request context for the mirror client. The token itself is
// opaque here: session issuing and cookie handling live in the storefront
// edge, this service only forwards the credential.
func CustomerSessionMiddleware(c *gin.Context) {
	token := c.GetHeader(types.HeaderSessionToken)
	if token == "" {
		c.AbortWithStatusJSON(401, ierr.NewErrorResponse(
			ierr.NewError("missing customer session token").
				WithHint("Please sign in to manage your subscription").
				Mark(ierr.ErrPermissionDenied)))
		return
	}

	ctx := types.SetCustomerToken(c.Request.Context(), token)
	if customerID := c.GetHeader(types.HeaderCustomerID); customerID != "" {
		ctx = types.SetCustomerID(ctx, customerID)
	}
	c.Request = c.Request.WithContext(ctx)

	c.Next()
}
