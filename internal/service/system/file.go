/*
 * @author: sun977
 * @date: 2025.09.16
 * @description: 文件上传服务
 * @func:
 * 1.校验文件名、扩展名与大小
 * 2.以 {upload_path}/{file_id}_{uuid}.{ext} 保存
 * 3.写入文件映射，写入失败只记录警告
 */
package system

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"neoadmin/internal/config"
	"neoadmin/internal/model"
	"neoadmin/internal/model/system"
	"neoadmin/internal/pkg/logger"
	"neoadmin/internal/pkg/utils"
	"neoadmin/internal/repository/mysql"

	"github.com/google/uuid"
)

const (
	defaultMaxUploadSize = 500 * 1024 * 1024
	defaultUploadPath    = "uploads"
)

// dangerousExtensions 禁止上传的可执行/脚本扩展名
var dangerousExtensions = map[string]struct{}{
	"exe": {}, "bat": {}, "cmd": {}, "com": {}, "pif": {}, "scr": {}, "vbs": {}, "js": {},
	"jar": {}, "sh": {}, "ps1": {}, "php": {}, "asp": {}, "jsp": {}, "py": {}, "pl": {}, "rb": {},
}

// allowedExtensions 允许上传的扩展名及对应文件类型
var allowedExtensions = map[string]string{
	"jpg": model.FileTypeImage, "jpeg": model.FileTypeImage, "png": model.FileTypeImage, "gif": model.FileTypeImage,
	"bmp": model.FileTypeImage, "webp": model.FileTypeImage, "svg": model.FileTypeImage,
	"mp3": model.FileTypeAudio, "wav": model.FileTypeAudio, "flac": model.FileTypeAudio, "aac": model.FileTypeAudio,
	"ogg": model.FileTypeAudio, "m4a": model.FileTypeAudio,
	"mp4": model.FileTypeVideo, "avi": model.FileTypeVideo, "mov": model.FileTypeVideo, "wmv": model.FileTypeVideo,
	"flv": model.FileTypeVideo, "mkv": model.FileTypeVideo, "webm": model.FileTypeVideo,
	"pdf": model.FileTypeDocument, "doc": model.FileTypeDocument, "docx": model.FileTypeDocument,
	"xls": model.FileTypeDocument, "xlsx": model.FileTypeDocument, "ppt": model.FileTypeDocument,
	"pptx": model.FileTypeDocument, "txt": model.FileTypeDocument, "md": model.FileTypeDocument,
	"json": model.FileTypeDocument, "xml": model.FileTypeDocument, "csv": model.FileTypeDocument,
	"zip": model.FileTypeDocument, "rar": model.FileTypeDocument, "7z": model.FileTypeDocument,
}

// FileService 文件上传服务
type FileService struct {
	mappingRepo *mysql.FileMappingRepository
	maxSize     int64
	uploadPath  string
}

// NewFileService 创建文件服务实例
func NewFileService(mappingRepo *mysql.FileMappingRepository, cfg *config.UploadConfig) *FileService {
	s := &FileService{
		mappingRepo: mappingRepo,
		maxSize:     defaultMaxUploadSize,
		uploadPath:  defaultUploadPath,
	}
	if cfg != nil {
		if cfg.MaxSize > 0 {
			s.maxSize = cfg.MaxSize
		}
		if cfg.UploadPath != "" {
			s.uploadPath = cfg.UploadPath
		}
	}
	return s
}

// Upload 保存上传文件并返回文件信息
func (s *FileService) Upload(ctx context.Context, userID uint, header *multipart.FileHeader) (*model.FileUploadInfo, error) {
	if header == nil {
		return nil, system.ErrFileEmpty
	}
	fileType, err := s.check(header.Filename, header.Size)
	if err != nil {
		return nil, err
	}

	src, err := header.Open()
	if err != nil {
		return nil, system.Internal("operation failed", err)
	}
	defer src.Close()

	ext := utils.FileExtension(header.Filename)
	fileID := uuid.NewString()
	safeName := utils.GenerateHexID() + "." + ext
	dstPath := filepath.Join(s.uploadPath, fileID+"_"+safeName)

	if err := os.MkdirAll(s.uploadPath, 0o755); err != nil {
		return nil, system.Internal("operation failed", err)
	}
	written, err := saveFile(src, dstPath)
	if err != nil {
		logger.LogError(err, "", userID, "", "file_upload", "POST", map[string]interface{}{
			"operation": "save_upload",
			"filename":  header.Filename,
			"timestamp": logger.NowFormatted(),
		})
		return nil, system.Internal("operation failed", err)
	}

	mapping := &model.FileMapping{
		FileID:           fileID,
		OriginalFilename: utils.SanitizeFileName(header.Filename),
		FileType:         fileType,
		FileSize:         written,
		UploadUserID:     userID,
		FilePath:         dstPath,
	}
	if err := s.mappingRepo.CreateFileMapping(ctx, mapping); err != nil {
		logger.LogWarn("failed to save file mapping", "", userID, "", "file_upload", "POST", map[string]interface{}{
			"file_id": fileID,
			"error":   err.Error(),
		})
	}

	return &model.FileUploadInfo{
		FileID:           fileID,
		OriginalFilename: header.Filename,
		FileType:         fileType,
		FileSize:         written,
		FilePath:         dstPath,
	}, nil
}

// check 校验文件名、扩展名与大小，返回文件类型
func (s *FileService) check(filename string, size int64) (string, error) {
	if filename == "" {
		return "", system.ErrInvalidFileName
	}
	ext := utils.FileExtension(filename)
	if _, bad := dangerousExtensions[ext]; bad {
		return "", system.BadRequest("File type not allowed for upload: ." + ext)
	}
	fileType, ok := allowedExtensions[ext]
	if !ok {
		return "", system.BadRequest("File type not allowed for upload: ." + ext)
	}
	if size <= 0 {
		return "", system.ErrFileEmpty
	}
	if size > s.maxSize {
		return "", system.BadRequest(fmt.Sprintf("File size exceeds limit %dMB", s.maxSize/1024/1024))
	}
	return fileType, nil
}

func saveFile(src io.Reader, dstPath string) (int64, error) {
	dst, err := os.Create(dstPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dstPath, err)
	}
	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return 0, fmt.Errorf("failed to write %s: %w", dstPath, err)
	}
	return written, nil
}
