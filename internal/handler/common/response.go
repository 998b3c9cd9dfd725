/**
 * handler公共响应
 * @author: sun977
 * @date: 2025.09.16
 * @description: 统一信封 {code, msg, data} 输出与错误转换
 * @func:
 * 	1.Success / SuccessMsg / SuccessPage 成功响应
 * 	2.Error 业务错误转响应，调试模式附带 Detail
 * 	3.BindError 参数绑定失败
 */
package common

import (
	"net/http"

	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DebugModeKey 调试模式标记在 Gin 上下文中的键，由中间件写入
const DebugModeKey = "debug_mode"

// MsgInvalidParams 参数校验失败的对外提示
const MsgInvalidParams = "Invalid request parameters"

// 写操作成功提示
const (
	MsgCreated = "Created Successfully"
	MsgUpdated = "Updated Successfully"
	MsgDeleted = "Deleted Success"
)

// msgInternal 非调试模式下内部错误的统一提示
const msgInternal = "operation failed"

// Success 返回成功数据
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, model.Success(data))
}

// SuccessMsg 返回只带提示的成功响应
func SuccessMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, model.SuccessMsg(msg))
}

// SuccessData 返回带自定义提示的成功数据
func SuccessData(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, model.APIResponse{Code: http.StatusOK, Msg: msg, Data: data})
}

// SuccessPage 返回分页数据
func SuccessPage(c *gin.Context, data interface{}, total int64, q model.PageQuery) {
	c.JSON(http.StatusOK, model.SuccessPage(data, total, q.Page, q.PageSize))
}

// IsDebug 当前请求是否处于调试模式
func IsDebug(c *gin.Context) bool {
	return c.GetBool(DebugModeKey)
}

// Error 将错误转换为响应并中止后续处理
// 非 AppError 视为内部错误；HTTP状态码与信封 code 一致
func Error(c *gin.Context, err error) {
	appErr := system.AsAppError(err)
	status := appErr.StatusCode()
	debug := IsDebug(c)

	if appErr.Kind == system.KindInternal {
		logger.LogError(err, utils.GetRequestID(c), utils.GetCurrentUserID(c), utils.GetClientIP(c), c.Request.URL.Path, c.Request.Method, map[string]interface{}{
			"operation": "handle_request",
			"func_name": "handler.common.Error",
			"timestamp": logger.NowFormatted(),
		})
	}

	c.AbortWithStatusJSON(status, model.Fail(status, message(appErr, debug)))
}

// BindError 参数绑定或校验失败，调试模式下返回校验细节
func BindError(c *gin.Context, err error) {
	msg := MsgInvalidParams
	if IsDebug(c) && err != nil {
		msg = msg + ": " + err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, model.Fail(http.StatusBadRequest, msg))
}

// message 组装对外提示
func message(appErr *system.AppError, debug bool) string {
	if !debug {
		if appErr.Kind == system.KindInternal {
			return msgInternal
		}
		return appErr.Message
	}

	msg := appErr.Message
	if appErr.Detail != "" {
		msg = msg + ": " + appErr.Detail
	} else if appErr.Err != nil {
		msg = msg + ": " + appErr.Err.Error()
	}
	return msg
}

// CurrentUserKey 认证中间件写入的当前用户对象键
const CurrentUserKey = "user"

// CurrentUser 读取认证中间件绑定的当前用户，未认证返回 nil
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok2 := v.(*model.User); ok2 {
			return user
		}
	}
	return nil
}
