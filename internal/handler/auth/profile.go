/**
 * 认证接口:当前用户
 * @author: sun977
 * @date: 2025.09.16
 * @description: 只需登录即可访问的接口，不做权限校验
 * @func:
 * 	1.Userinfo 当前用户信息
 * 	2.UserMenu 当前用户菜单树
 * 	3.UserApi 当前用户可访问的API
 * 	4.UpdatePassword 修改密码
 */
package auth

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"
	"neoadmin/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 当前用户接口处理器
type ProfileHandler struct {
	sessionService *auth.SessionService
}

// NewProfileHandler 创建当前用户接口处理器
func NewProfileHandler(sessionService *auth.SessionService) *ProfileHandler {
	return &ProfileHandler{sessionService: sessionService}
}

// Userinfo 获取当前用户信息
// @Router /api/v1/base/userinfo [get]
func (h *ProfileHandler) Userinfo(c *gin.Context) {
	info, err := h.sessionService.Userinfo(c.Request.Context(), utils.GetCurrentUserID(c))
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, info)
}

// UserMenu 获取当前用户菜单树，超级管理员返回全部菜单
// @Router /api/v1/base/usermenu [get]
func (h *ProfileHandler) UserMenu(c *gin.Context) {
	user := common.CurrentUser(c)
	if user == nil {
		common.Error(c, system.ErrAuthFailed)
		return
	}
	menus, err := h.sessionService.UserMenu(c.Request.Context(), user)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, menus)
}

// UserApi 获取当前用户可访问的API，格式为 method+path
// @Router /api/v1/base/userapi [get]
func (h *ProfileHandler) UserApi(c *gin.Context) {
	user := common.CurrentUser(c)
	if user == nil {
		common.Error(c, system.ErrAuthFailed)
		return
	}
	apis, err := h.sessionService.UserApi(c.Request.Context(), user)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, apis)
}

// UpdatePassword 修改当前用户密码
// @Router /api/v1/base/update_password [post]
func (h *ProfileHandler) UpdatePassword(c *gin.Context) {
	var req model.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	userID := utils.GetCurrentUserID(c)
	if err := h.sessionService.UpdatePassword(c.Request.Context(), userID, &req); err != nil {
		common.Error(c, err)
		return
	}

	logger.LogBusinessOperation("update_password", userID, c.GetString("username"), utils.GetClientIP(c), utils.GetRequestID(c), "success", "Password updated", map[string]interface{}{
		"operation": "update_password",
		"timestamp": logger.NowFormatted(),
	})
	common.SuccessMsg(c, common.MsgUpdated)
}
