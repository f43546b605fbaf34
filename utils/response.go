package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the envelope every API handler writes: a numeric app code
// (0 on success, 4xxNN/5xxNN otherwise), a short message, and the payload.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes the envelope with the given HTTP status.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success writes a 200 envelope with code 0.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error writes an error envelope without a payload.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// ValidationFailed writes a 400 envelope carrying collected field errors
// under the "errors" key, in whatever shape the core returned them.
func ValidationFailed(ctx *gin.Context, code int, errs interface{}) {
	Respond(ctx, 400, code, "validation failed", gin.H{"errors": errs})
}
