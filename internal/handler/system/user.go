/**
 * @author: sun977
 * @date: 2025.09.16
 * @description: 用户管理接口
 * @func:
 * 	1.List 用户列表
 * 	2.Get 用户详情
 * 	3.Create / Update / Delete
 * 	4.ResetPassword 重置为默认密码
 */
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"
	"neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	userService *system.UserService
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(userService *system.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List 获取用户列表
// @Router /api/v1/user/list [get]
func (h *UserHandler) List(c *gin.Context) {
	var q model.UserListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), &q)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessPage(c, users, total, q.PageQuery)
}

// Get 获取单个用户
// @Router /api/v1/user/get [get]
func (h *UserHandler) Get(c *gin.Context) {
	var q model.UserIDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	info, err := h.userService.Get(c.Request.Context(), q.UserID)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, info)
}

// Create 创建用户
// @Router /api/v1/user/create [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		common.Error(c, err)
		return
	}
	logger.LogBusinessOperation("create_user", utils.GetCurrentUserID(c), user.Username, utils.GetClientIP(c), utils.GetRequestID(c), "success", "User created", map[string]interface{}{
		"operation":   "create_user",
		"new_user_id": user.ID,
		"timestamp":   logger.NowFormatted(),
	})
	common.SuccessData(c, common.MsgCreated, model.NewUserInfo(user))
}

// Update 更新用户
// @Router /api/v1/user/update [post]
func (h *UserHandler) Update(c *gin.Context) {
	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.userService.Update(c.Request.Context(), &req); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgUpdated)
}

// Delete 删除用户
// @Router /api/v1/user/delete [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	var q model.UserIDQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.userService.Delete(c.Request.Context(), utils.GetCurrentUserID(c), q.UserID); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, common.MsgDeleted)
}

// ResetPassword 重置用户密码
// @Router /api/v1/user/reset_password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), req.UserID); err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessMsg(c, "Password reset successful")
}
