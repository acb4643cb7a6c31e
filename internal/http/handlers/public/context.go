package public

import (
	handlershared "github.com/veloshop-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// getOwnerID 读取中间件注入的购物车归属标识
func getOwnerID(c *gin.Context) (string, bool) {
	return handlershared.GetContextString(c, "owner_id", "error.owner_required")
}
