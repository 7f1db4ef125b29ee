package utils

import (
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	pureNumberPattern = regexp.MustCompile(`^[0-9]+$`)
	passwordCharset   = regexp.MustCompile(`^[a-zA-Z0-9[:punct:]]+$`)
	letterPattern     = regexp.MustCompile(`[a-zA-Z]`)
	numberPattern     = regexp.MustCompile(`[0-9]`)
	reservedUsernames = map[string]bool{"admin": true, "root": true, "system": true, "administrator": true}
)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	if len(username) < 4 || len(username) > 20 {
		return false, "用户名长度需在 4 到 20 个字符之间"
	}

	// 允许英文大小写、数字和下划线
	if !usernamePattern.MatchString(username) {
		return false, "用户名只能包含英文大小写、数字和下划线"
	}

	// 不能是纯数字
	if pureNumberPattern.MatchString(username) {
		return false, "用户名不能为纯数字"
	}

	if reservedUsernames[strings.ToLower(username)] {
		return false, "该用户名为系统保留用户名"
	}

	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "密码最少8位"
	}
	if len(password) > 64 {
		return false, "密码最多64位"
	}

	if !passwordCharset.MatchString(password) {
		return false, "密码只能包含英文大小写、数字和符号"
	}

	if !letterPattern.MatchString(password) || !numberPattern.MatchString(password) {
		return false, "密码必须包含至少一个字母和一个数字"
	}

	return true, ""
}

// ValidatePostFields checks title and content of a post.
func ValidatePostFields(title, content string) (bool, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, "标题不能为空"
	}
	if utf8.RuneCountInString(title) > 120 {
		return false, "标题不能超过 120 个字符"
	}
	if strings.TrimSpace(content) == "" {
		return false, "内容不能为空"
	}
	if utf8.RuneCountInString(content) > 50000 {
		return false, "内容不能超过 50000 个字符"
	}
	return true, ""
}

// ValidateImageContent checks if the file content matches the extension.
// It returns the detected content type on success.
func ValidateImageContent(reader io.ReadSeeker, ext string) (bool, string) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return false, "读取文件内容失败"
	}

	// 重置读取位置
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return false, "重置文件读取位置失败"
	}

	contentType := http.DetectContentType(buffer[:n])

	allowedTypes := map[string]map[string]bool{
		"image/jpeg":     {".jpg": true, ".jpeg": true},
		"image/png":      {".png": true},
		"image/gif":      {".gif": true},
		"image/webp":     {".webp": true},
		"image/bmp":      {".bmp": true},
		"image/x-ms-bmp": {".bmp": true},
	}

	if exts, ok := allowedTypes[contentType]; ok {
		if exts[ext] {
			return true, contentType
		}
	}

	return false, "文件真实类型(" + contentType + ")与扩展名(" + ext + ")不匹配或不支持"
}
