package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters: users_created, users_updated, users_deleted, images_uploaded
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
