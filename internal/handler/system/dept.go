// 部门管理接口
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// DeptHandler 部门管理处理器
type DeptHandler struct {
	deptService *system.DeptService
}

// NewDeptHandler 创建部门管理处理器
func NewDeptHandler(deptService *system.DeptService) *DeptHandler {
	return &DeptHandler{deptService: deptService}
}

// List 部门树，name 非空时只保留匹配的部门
func (h *DeptHandler) List(c *gin.Context) {
	var q model.DeptListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	tree, err := h.deptService.Tree(c.Request.Context(), q.Name)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, tree)
}

// Get 部门详情
func (h *DeptHandler) Get(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	dept, err := h.deptService.Get(c.Request.Context(), q.ID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, dept)
}

// Create 创建部门
func (h *DeptHandler) Create(c *gin.Context) {
	var req model.CreateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	dept, err := h.deptService.Create(c.Request.Context(), &req)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessData(c, common.MsgCreated, dept)
}

// Update 更新部门，parent_id 变化时重建闭包
func (h *DeptHandler) Update(c *gin.Context) {
	var req model.UpdateDeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.deptService.Update(c.Request.Context(), &req); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgUpdated)
}

// Delete 软删除部门
func (h *DeptHandler) Delete(c *gin.Context) {
	var q model.DeptIDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.deptService.Delete(c.Request.Context(), q.DeptID); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgDeleted)
}
