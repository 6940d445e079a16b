package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-user-accounts/internal/interface/http"
)

// UserModule wires the account handlers into routes under the given group (usually /api):
// POST /user/create, PUT /user/edit, DELETE /user/delete, GET /user/getAll, POST /user/uploadImage
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	{
		user.POST("/create", m.Handler.Create)
		user.PUT("/edit", m.Handler.Edit)
		user.DELETE("/delete", m.Handler.Delete)
		user.GET("/getAll", m.Handler.GetAll)
		user.POST("/uploadImage", m.Handler.UploadImage)
	}
}
