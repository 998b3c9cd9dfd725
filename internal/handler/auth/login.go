/**
 * 认证接口:登录
 * @author: sun977
 * @date: 2025.09.16
 * @description: 用户名密码登录，签发访问令牌与刷新令牌
 */
package auth

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"
	"neoadmin/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// LoginHandler 登录接口处理器
type LoginHandler struct {
	sessionService *auth.SessionService
}

// NewLoginHandler 创建登录处理器实例
func NewLoginHandler(sessionService *auth.SessionService) *LoginHandler {
	return &LoginHandler{
		sessionService: sessionService,
	}
}

// Login 用户登录接口
// @Summary 用户登录
// @Description 用户名和密码登录，返回令牌对
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "登录请求"
// @Success 200 {object} model.APIResponse{data=model.TokenInfo} "登录成功"
// @Failure 400 {object} model.APIResponse "请求参数错误"
// @Failure 401 {object} model.APIResponse "认证失败"
// @Router /api/v1/base/access_token [post]
func (h *LoginHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	tokenInfo, err := h.sessionService.Login(c.Request.Context(), &req)
	if err != nil {
		logger.LogWarn("Login failed", utils.GetRequestID(c), 0, utils.GetClientIP(c), c.Request.URL.Path, c.Request.Method, map[string]interface{}{
			"operation": "login",
			"username":  req.Username,
			"func_name": "handler.auth.Login",
		})
		common.Error(c, err)
		return
	}

	logger.LogBusinessOperation("login", 0, tokenInfo.Username, utils.GetClientIP(c), utils.GetRequestID(c), "success", "User logged in", map[string]interface{}{
		"operation": "login",
		"timestamp": logger.NowFormatted(),
	})
	common.Success(c, tokenInfo)
}
