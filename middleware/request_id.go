package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/suisen-cp/algopedia/utils"
)

// RequestID attaches a request id to every request. An inbound X-Request-ID
// header is honored so ids survive proxy hops; otherwise a fresh UUID is
// generated. The id is echoed back in the response header and made available
// to the access log.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rid := ctx.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Set(utils.ContextRequestIDKey, rid)
		ctx.Header("X-Request-ID", rid)
		ctx.Next()
	}
}
