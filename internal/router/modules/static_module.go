package modules

import "github.com/gin-gonic/gin"

// StaticModule serves the local upload directory read-only (GET and HEAD).
type StaticModule struct {
	Prefix string
	Dir    string
}

func NewStaticModule(prefix, dir string) *StaticModule {
	return &StaticModule{Prefix: prefix, Dir: dir}
}

func (m *StaticModule) Register(rg *gin.RouterGroup) {
	rg.Static(m.Prefix, m.Dir)
}
