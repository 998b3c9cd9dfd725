package model

// 文件类型
const (
	FileTypeImage    = "image"
	FileTypeAudio    = "audio"
	FileTypeVideo    = "video"
	FileTypeDocument = "document"
)

// FileMapping 文件ID与文件信息的映射
type FileMapping struct {
	BaseModel
	FileID           string `json:"file_id" gorm:"uniqueIndex;not null;size:255;comment:文件ID"`
	OriginalFilename string `json:"original_filename" gorm:"not null;size:255;comment:原始文件名"`
	FileType         string `json:"file_type" gorm:"not null;size:50;comment:文件类型"`
	FileSize         int64  `json:"file_size" gorm:"comment:文件大小(字节)"`
	UploadUserID     uint   `json:"upload_user_id" gorm:"not null;index;comment:上传用户ID"`
	FilePath         string `json:"file_path" gorm:"size:500;comment:本地文件路径"`
}

// TableName 指定文件映射表名
func (FileMapping) TableName() string {
	return "file_mappings"
}
