package model

import "time"

// PostLike 一个账号对一篇文章最多一条记录。
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_post_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID"`
	CreatedAt time.Time `json:"created_at"`
}
