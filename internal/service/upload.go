package service

import (
	"blog-server/internal/consts"
	"blog-server/internal/storage"
	"blog-server/internal/utils"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const defaultMaxUploadSizeMB = 10

// ValidateImageFile 验证上传的图片文件（大小、后缀、内容）。
// 返回小写扩展名与探测到的内容类型。
func (s *AppService) ValidateImageFile(file *multipart.FileHeader) (string, string, error) {
	if file == nil {
		return "", "", NewValidationError("请选择要上传的图片")
	}

	maxSizeMB := s.GetInt(consts.ConfigMaxUploadSize)
	if maxSizeMB <= 0 {
		maxSizeMB = defaultMaxUploadSizeMB
	}
	if file.Size > int64(maxSizeMB)*1024*1024 {
		return "", "", NewValidationError(fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return "", "", NewValidationError("无法识别文件类型")
	}

	allowed := false
	for _, allowExt := range strings.Split(s.GetString(consts.ConfigAllowFileExtensions), ",") {
		if strings.TrimSpace(strings.ToLower(allowExt)) == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "", NewValidationError(fmt.Sprintf("不支持的文件类型: %s", ext))
	}

	src, err := file.Open()
	if err != nil {
		return "", "", NewValidationError("无法打开上传的文件")
	}
	defer func() { _ = src.Close() }()

	valid, result := utils.ValidateImageContent(src, ext)
	if !valid {
		return "", "", NewValidationError(result)
	}
	return ext, result, nil
}

// storeImage 校验并写入 BlobStore，返回新 key。
func (s *AppService) storeImage(ctx context.Context, namespace string, file *multipart.FileHeader) (string, error) {
	ext, contentType, err := s.ValidateImageFile(file)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", NewValidationError("无法读取上传文件")
	}
	defer func() { _ = src.Close() }()

	key := storage.NewKey(namespace, ext)
	if err := s.blobs.Put(ctx, key, src, file.Size, contentType); err != nil {
		log.Printf("Store blob %s error: %v\n", key, err)
		return "", NewInternalError("文件保存失败")
	}
	return key, nil
}

// deleteBlobBestEffort 删除失败只记录日志，遗留文件由清理任务回收。
func (s *AppService) deleteBlobBestEffort(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Printf("Warning: 删除文件 %s 失败: %v\n", key, err)
	}
}

func (s *AppService) blobURL(key string) string {
	if key == "" {
		return ""
	}
	return s.blobs.URL(key)
}
