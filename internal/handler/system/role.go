// 角色管理接口
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// RoleHandler 角色管理处理器
type RoleHandler struct {
	roleService *system.RoleService
}

// NewRoleHandler 创建角色管理处理器
func NewRoleHandler(roleService *system.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List 角色列表
func (h *RoleHandler) List(c *gin.Context) {
	var q model.RoleListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	roles, total, err := h.roleService.List(c.Request.Context(), &q)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessPage(c, roles, total, q.PageQuery)
}

// Get 角色详情
func (h *RoleHandler) Get(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	role, err := h.roleService.Get(c.Request.Context(), q.ID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, role)
}

// Create 创建角色
func (h *RoleHandler) Create(c *gin.Context) {
	var req model.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	role, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessData(c, common.MsgCreated, role)
}

// Update 更新角色
func (h *RoleHandler) Update(c *gin.Context) {
	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.roleService.Update(c.Request.Context(), &req); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgUpdated)
}

// Delete 删除角色
func (h *RoleHandler) Delete(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.roleService.Delete(c.Request.Context(), q.ID); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgDeleted)
}

// GetAuthorized 查看角色已授权的菜单与API
func (h *RoleHandler) GetAuthorized(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	info, err := h.roleService.GetAuthorized(c.Request.Context(), q.ID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, info)
}

// UpdateAuthorized 整体替换角色的菜单与API授权
func (h *RoleHandler) UpdateAuthorized(c *gin.Context) {
	var req model.RoleAuthorizedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.roleService.UpdateAuthorized(c.Request.Context(), &req); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgUpdated)
}
