package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Ventana fija en Redis: INCR + PEXPIRE en un script para que el contador
// y su expiración sean atómicos entre instancias.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit limita requests por IP. Si Redis no responde deja pasar:
// preferimos perder el límite antes que tumbar el login.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, prefix string) gin.HandlerFunc {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix == "" {
		prefix = "rl"
	}

	return func(c *gin.Context) {
		key := prefix + ":" + c.ClientIP()

		res, err := fixedWindowScript.Run(
			c.Request.Context(), rdb,
			[]string{key},
			window.Milliseconds(),
		).Int64()
		if err != nil {
			log.Println("rate limiter error:", err)
			c.Next()
			return
		}

		if res > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error_code": "rate_limited",
				"message":    "Demasiadas solicitudes, intenta más tarde.",
			})
			return
		}

		c.Next()
	}
}
