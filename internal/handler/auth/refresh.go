package auth

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model"
	"neoadmin/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// RefreshHandler 令牌刷新接口处理器
type RefreshHandler struct {
	sessionService *auth.SessionService
}

// NewRefreshHandler 创建令牌刷新处理器实例
func NewRefreshHandler(sessionService *auth.SessionService) *RefreshHandler {
	return &RefreshHandler{
		sessionService: sessionService,
	}
}

// RefreshToken 刷新访问令牌接口
// 刷新令牌校验通过且用户仍存在并启用时签发新的令牌对
// @Router /api/v1/base/refresh_token [post]
func (h *RefreshHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BindError(c, err)
		return
	}

	resp, err := h.sessionService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.Success(c, resp)
}
