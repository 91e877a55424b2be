package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/config"
	"github.com/atempo-app/atempo-api/internal/models"
	"github.com/atempo-app/atempo-api/internal/principal"
)

const ContextPrincipal = "principal"

// AuthMiddleware valida el bearer token y deja un principal.Principal en el
// contexto. Para STAFF relee la fila del empleado: los permisos y el estado
// activo se evalúan frescos en cada request, no los que traía el token.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Falta token de autorización."})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Encabezado de autorización inválido."})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Token inválido."})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Token inválido."})
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		businessID, _ := claims["businessId"].(string)

		id, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Token inválido."})
			return
		}

		p := principal.Principal{ID: id}

		switch principal.Role(role) {
		case principal.RoleOwner:
			p.Role = principal.RoleOwner
			p.BusinessID = id

		case principal.RoleStaff:
			bizID, err := uuid.Parse(businessID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Token inválido."})
				return
			}

			var emp models.Employee
			if err := db.
				Where("id = ? AND business_id = ?", id, bizID).
				First(&emp).Error; err != nil || !emp.Active {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Cuenta de empleado inválida o inactiva."})
				return
			}

			p.Role = principal.RoleStaff
			p.BusinessID = bizID
			p.Permissions = emp.Permissions

		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "unauthorized", "message": "Token inválido."})
			return
		}

		c.Set(ContextPrincipal, p)
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) principal.Principal {
	return c.MustGet(ContextPrincipal).(principal.Principal)
}
