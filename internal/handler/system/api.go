// API管理接口
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"
	"neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// RouteProvider 返回当前注册的需要权限的路由
type RouteProvider func() []model.RouteMeta

// ApiHandler API管理处理器
type ApiHandler struct {
	apiService *system.ApiService
	routes     RouteProvider
}

// NewApiHandler 创建API管理处理器
func NewApiHandler(apiService *system.ApiService, routes RouteProvider) *ApiHandler {
	return &ApiHandler{apiService: apiService, routes: routes}
}

// List API列表
func (h *ApiHandler) List(c *gin.Context) {
	var q model.ApiListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	apis, total, err := h.apiService.List(c.Request.Context(), &q)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessPage(c, apis, total, q.PageQuery)
}

// Get API详情
func (h *ApiHandler) Get(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	api, err := h.apiService.Get(c.Request.Context(), q.ID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, api)
}

// Create 创建API
func (h *ApiHandler) Create(c *gin.Context) {
	var req model.CreateApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	api, err := h.apiService.Create(c.Request.Context(), &req)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessData(c, common.MsgCreated, api)
}

// Update 更新API
func (h *ApiHandler) Update(c *gin.Context) {
	var req model.UpdateApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.apiService.Update(c.Request.Context(), &req); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgUpdated)
}

// Delete 删除API
func (h *ApiHandler) Delete(c *gin.Context) {
	var q model.IDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.apiService.Delete(c.Request.Context(), q.ID); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgDeleted)
}

// Refresh 按路由表同步API
// @Router /api/v1/api/refresh [post]
func (h *ApiHandler) Refresh(c *gin.Context) {
	created, deleted, err := h.apiService.RefreshFromRoutes(c.Request.Context(), h.routes())
	if err != nil {
		common.Error(c, err)
		return
	}
	logger.LogBusinessOperation("refresh_api", utils.GetCurrentUserID(c), c.GetString("username"), utils.GetClientIP(c), utils.GetRequestID(c), "success", "Api refreshed", map[string]interface{}{
		"operation": "refresh_api",
		"created":   created,
		"deleted":   deleted,
		"timestamp": logger.NowFormatted(),
	})
	common.SuccessData(c, "Refreshed Successfully", gin.H{"created": created, "deleted": deleted})
}
