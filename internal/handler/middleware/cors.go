package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"
)

// CORSMiddleware gives the configured frontend origin full access with
// credentials. Every other origin may only read.
func CORSMiddleware(frontendOrigin string) ginext.HandlerFunc {
	public := cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	})

	if frontendOrigin == "" {
		return public
	}

	trusted := cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *ginext.Context) {
		if c.GetHeader("Origin") == frontendOrigin {
			trusted(c)
			return
		}
		public(c)
	}
}
