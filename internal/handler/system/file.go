// 文件上传接口
package system

import (
	"neoadmin/internal/handler/common"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/utils"
	systemService "neoadmin/internal/service/system"

	"github.com/gin-gonic/gin"
)

// FileHandler 文件处理器
type FileHandler struct {
	fileService *systemService.FileService
}

// NewFileHandler 创建文件处理器
func NewFileHandler(fileService *systemService.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload 上传单个文件，表单字段 file
// @Router /api/v1/file/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		common.Error(c, system.ErrFileEmpty.WithDetail(err.Error()))
		return
	}
	info, err := h.fileService.Upload(c.Request.Context(), utils.GetCurrentUserID(c), header)
	if err != nil {
		common.Error(c, err)
		return
	}
	common.SuccessData(c, "Upload Successfully", info)
}
