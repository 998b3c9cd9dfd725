// 菜单管理接口
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// MenuHandler 菜单管理处理器
type MenuHandler struct {
	menuService *system.MenuService
}

// NewMenuHandler 创建菜单管理处理器
func NewMenuHandler(menuService *system.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// List 菜单列表，未过滤时返回树
func (h *MenuHandler) List(c *gin.Context) {
	var q model.MenuListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	nodes, err := h.menuService.List(c.Request.Context(), q.Name)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, nodes)
}

// Get 菜单详情
func (h *MenuHandler) Get(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	menu, err := h.menuService.Get(c.Request.Context(), q.ID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, menu)
}

// Create 创建菜单
func (h *MenuHandler) Create(c *gin.Context) {
	var req model.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	menu, err := h.menuService.Create(c.Request.Context(), &req)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessData(c, common.MsgCreated, menu)
}

// Update 更新菜单
func (h *MenuHandler) Update(c *gin.Context) {
	var req model.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.menuService.Update(c.Request.Context(), &req); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgUpdated)
}

// Delete 删除菜单
func (h *MenuHandler) Delete(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), q.ID); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgDeleted)
}
