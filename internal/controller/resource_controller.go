package controller

import (
	"net/http"

	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ResourceController 资源的通用增删改查，请求体按 T 的 binding 标签校验
type ResourceController[T repository.Entity[T]] struct {
	Collection *repository.Collection[T]
}

func NewResourceController[T repository.Entity[T]](c *repository.Collection[T]) *ResourceController[T] {
	return &ResourceController[T]{Collection: c}
}

// Register 在 group 上挂载 GET / POST / GET :id / PUT :id / DELETE :id
//
// 权限由 group 上的中间件控制。
func (c *ResourceController[T]) Register(group *gin.RouterGroup) {
	group.GET("", c.List)
	group.GET("/:id", c.Get)
	group.POST("", c.Create)
	group.PUT("/:id", c.Update)
	group.DELETE("/:id", c.Delete)
}

func (c *ResourceController[T]) List(ctx *gin.Context) {
	items, err := c.Collection.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.List(ctx, items)
}

func (c *ResourceController[T]) Get(ctx *gin.Context) {
	item, ok, err := c.Collection.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !ok {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, item)
}

func (c *ResourceController[T]) Create(ctx *gin.Context) {
	var item T
	if err := ctx.ShouldBindJSON(&item); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	created, err := c.Collection.Create(ctx.Request.Context(), item)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, created)
}

// Update 以路径中的 id 为准，忽略请求体里的 id
func (c *ResourceController[T]) Update(ctx *gin.Context) {
	var item T
	if err := ctx.ShouldBindJSON(&item); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	updated, err := c.Collection.Update(ctx.Request.Context(), item.WithID(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

func (c *ResourceController[T]) Delete(ctx *gin.Context) {
	if err := c.Collection.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
