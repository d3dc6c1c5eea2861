package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// authenticate answers with the statuses the production API uses for tokens:
// 401 for a missing, expired or badly signed token, 422 for one that cannot be parsed.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Missing Authorization Header"})
			return
		}
		fields := strings.Fields(header)
		if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"msg": "Bad Authorization header. Expected 'Authorization: Bearer <JWT>'"})
			return
		}

		id, err := s.auth.validate(fields[1])
		if err != nil {
			if errors.Is(err, ErrTokenMalformed) {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"msg": "Not enough segments"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token has expired"})
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func (s *Server) authorizeRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentIdentity(c).Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return &identity{}
	}
	id, _ := v.(*identity)
	if id == nil {
		return &identity{}
	}
	return id
}
