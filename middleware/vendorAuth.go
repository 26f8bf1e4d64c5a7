package middleware

import (
	"net/http"
	"strings"

	vendorRepo "marketplace/database/repository/vendor"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// VendorIDKey is the gin context key holding the authenticated vendor id.
const VendorIDKey = "vendorID"

// JWTAuthVendorMiddleware validates the vendor's bearer token. Verified token hashes are cached in
// authCache with a sliding TTL; a nil authCache always checks the repository.
func JWTAuthVendorMiddleware(repo vendorRepo.VendorRepository, authCache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := zap.L()
		ctx := c.Request.Context()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		vendorID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || vendorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		computedHash := utils.HashToken(tokenString)
		cacheKey := utils.AuthCachePrefix + computedHash

		if authCache != nil {
			cached, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil && cached == vendorID {
				if err := authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err(); err != nil {
					logger.Error("Failed to refresh auth cache TTL", zap.Error(err))
				}
				c.Set(VendorIDKey, vendorID)
				c.Next()
				return
			} else if err != nil && err != redis.Nil {
				logger.Error("Error checking auth cache", zap.Error(err))
			}
		}

		v, err := repo.GetByID(ctx, vendorID)
		if err != nil || v == nil {
			logger.Warn("Vendor not found when validating token", zap.String("vendorID", vendorID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Vendor not found"})
			return
		}
		if computedHash != v.TokenHash {
			logger.Warn("Token hash mismatch", zap.String("vendorID", vendorID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token mismatch"})
			return
		}

		if authCache != nil {
			if err := authCache.Set(ctx, cacheKey, vendorID, utils.AuthCacheTTL).Err(); err != nil {
				logger.Error("Failed to set auth cache", zap.Error(err))
			}
		}

		c.Set(VendorIDKey, vendorID)
		c.Next()
	}
}
