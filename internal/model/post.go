package model

import "time"

type ImageKind string

const (
	ImageKindNone ImageKind = "none"
	ImageKindBlob ImageKind = "blob"
)

// PostImage 文章配图。Kind 为 blob 时 Key 指向 BlobStore 中的对象。
type PostImage struct {
	Kind ImageKind `json:"kind" gorm:"size:16;not null;default:none"`
	Key  string    `json:"key" gorm:"size:255;index"`
}

func BlobImage(key string) PostImage {
	if key == "" {
		return PostImage{Kind: ImageKindNone}
	}
	return PostImage{Kind: ImageKindBlob, Key: key}
}

// BlobKey 返回配图的 blob key，无配图时返回空串。
func (i PostImage) BlobKey() string {
	if i.Kind != ImageKindBlob {
		return ""
	}
	return i.Key
}

type Post struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Title      string     `json:"title" gorm:"not null;size:255"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	Image      PostImage  `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	User       User       `json:"-" gorm:"foreignKey:UserID;references:ID"`
	LikesCount int        `json:"likes_count" gorm:"not null;default:0"`
	Likes      []PostLike `json:"-"`
}
