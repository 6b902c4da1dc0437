package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/venuebill/venuebill/internal/types"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)
	c.Next()
}

// OrganizationMiddleware scopes the request context to the calling
// organization. Upstream auth is expected to have validated the header.
func OrganizationMiddleware(c *gin.Context) {
	orgID := c.GetHeader(types.HeaderOrganizationID)
	if orgID != "" {
		ctx := types.SetOrganizationID(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)
	}
	c.Next()
}
