/**
 * 路由:用户路由
 * @author: sun977
 * @date: 2025.10.10
 * @description: 登录用户的个人信息路由，只需要JWT认证
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupUserRoutes 设置当前用户路由
func (r *Router) setupUserRoutes(v1 *gin.RouterGroup) {
	base := v1.Group("/base")
	base.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		base.GET("/userinfo", r.authModule.ProfileHandler.Userinfo)               // 用户信息与角色
		base.GET("/usermenu", r.authModule.ProfileHandler.UserMenu)               // 授权菜单树
		base.GET("/userapi", r.authModule.ProfileHandler.UserApi)                 // 授权接口
		base.POST("/update_password", r.authModule.ProfileHandler.UpdatePassword) // 修改密码
	}
}
