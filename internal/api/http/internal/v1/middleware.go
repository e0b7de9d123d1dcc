package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mandapam/portal/internal/upstream"
	"github.com/mandapam/portal/pkg/auth"
	"github.com/mandapam/portal/pkg/logger"
)

const (
	authorizationHeader = "Authorization"
	staffCtx            = "staffId"
)

// staffIdentityMiddleware admits staff tokens and forwards them to the
// association backend, which authorizes the admin endpoints itself.
func (h *Handler) staffIdentityMiddleware(c *gin.Context) {
	token, err := parseAuthHeader(c)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	id, err := h.tokenManager.Parse(token)
	if err != nil {
		if !errors.Is(err, auth.ErrAccessTokenExpired) {
			logger.Error("parse auth header failed", zap.Error(err))
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(staffCtx, id)
	c.Request = c.Request.WithContext(upstream.WithBearer(c.Request.Context(), token))
	c.Next()
}

func parseAuthHeader(c *gin.Context) (string, error) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return "", errors.New("empty auth header")
	}

	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return "", errors.New("invalid auth header")
	}

	if len(headerParts[1]) == 0 {
		return "", errors.New("token is empty")
	}

	return headerParts[1], nil
}

func getStaffID(c *gin.Context) string {
	return c.GetString(staffCtx)
}

func pathID(c *gin.Context, name string, code ErrorCode) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorResponse(c, http.StatusBadRequest, getErrorStruct(code))
		return 0, false
	}
	return id, true
}

func eventID(c *gin.Context) (int64, bool) {
	return pathID(c, "id", InvalidEventIDCode)
}

func registrationID(c *gin.Context) (int64, bool) {
	return pathID(c, "regId", InvalidRegistrationIDCode)
}
