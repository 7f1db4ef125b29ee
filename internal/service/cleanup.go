package service

import (
	"blog-server/internal/model"
	"context"
	"errors"
	"log"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// 并发删除文件的最大协程数
const blobDeleteConcurrency = 8

// 删除策略：先尽力删除文件（失败只记录日志，不中断），最后在单个事务内提交数据库变更。
// 残留文件由 janitor 回收，记录不会指向已删除的文件而继续存在。

// purgeUser 级联删除账号：文章配图、头像、点赞、文章与账号本身。
func (s *AppService) purgeUser(ctx context.Context, userID uint) error {
	user, err := s.findUser(userID)
	if err != nil {
		return err
	}

	posts, err := s.repos.Post.ListByAuthor(userID)
	if err != nil {
		log.Printf("List posts for user %d error: %v\n", userID, err)
		return NewInternalError("删除用户失败")
	}

	// 请求中断不应打断清理
	cleanupCtx := context.WithoutCancel(ctx)

	keys := make([]string, 0, len(posts)+1)
	for _, post := range posts {
		if key := post.Image.BlobKey(); key != "" {
			keys = append(keys, key)
		}
	}
	if user.Avatar != "" {
		keys = append(keys, user.Avatar)
	}
	s.deleteBlobsBestEffort(cleanupCtx, keys)

	if err := s.repos.User.DeleteUserCascade(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("用户不存在")
		}
		log.Printf("Delete user %d error: %v\n", userID, err)
		return NewInternalError("删除用户失败")
	}

	s.InvalidateUserCache(userID)
	log.Printf("🗑️ 用户 %d 已删除，清理文章 %d 篇", userID, len(posts))
	return nil
}

// purgePost 删除文章配图后，在事务内删除点赞与文章。
func (s *AppService) purgePost(ctx context.Context, post *model.Post) error {
	s.deleteBlobBestEffort(context.WithoutCancel(ctx), post.Image.BlobKey())

	if err := s.repos.Post.DeletePostCascade(post.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("文章不存在")
		}
		log.Printf("Delete post %d error: %v\n", post.ID, err)
		return NewInternalError("删除文章失败")
	}
	return nil
}

func (s *AppService) deleteBlobsBestEffort(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(blobDeleteConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			s.deleteBlobBestEffort(ctx, key)
			return nil
		})
	}
	_ = g.Wait()
}
