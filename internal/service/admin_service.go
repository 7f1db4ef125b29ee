package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
)

type AdminListParams struct {
	Page     int
	PageSize int
	Keyword  string
}

type AdminUserPage struct {
	List     []UserProfile `json:"list"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type AdminPostPage struct {
	List     []PostView `json:"list"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type ServerStats struct {
	UserCount int64 `json:"user_count"`
	PostCount int64 `json:"post_count"`
}

// AdminDeleteUser 管理员删除任意账号，与注销走同一级联流程。
func (s *AppService) AdminDeleteUser(ctx context.Context, userID uint) error {
	return s.purgeUser(ctx, userID)
}

// AdminDeletePost 管理员删除任意文章，不校验作者。
func (s *AppService) AdminDeletePost(ctx context.Context, postID uint) error {
	post, err := s.repos.Post.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("文章不存在")
		}
		log.Printf("Find post error: %v\n", err)
		return NewInternalError("删除文章失败")
	}
	return s.purgePost(ctx, post)
}

func (s *AppService) AdminListUsers(params AdminListParams) (*AdminUserPage, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)

	users, total, err := s.repos.User.AdminListUsers(params.Keyword, "id desc", (page-1)*pageSize, pageSize)
	if err != nil {
		log.Printf("Admin list users error: %v\n", err)
		return nil, NewInternalError("获取用户列表失败")
	}

	list := make([]UserProfile, 0, len(users))
	for i := range users {
		list = append(list, s.toUserProfile(&users[i]))
	}
	return &AdminUserPage{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *AppService) AdminListPosts(params AdminListParams) (*AdminPostPage, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)

	posts, total, err := s.repos.Post.AdminListPosts(params.Keyword, (page-1)*pageSize, pageSize)
	if err != nil {
		log.Printf("Admin list posts error: %v\n", err)
		return nil, NewInternalError("获取文章列表失败")
	}
	return &AdminPostPage{List: s.toPostViews(posts), Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *AppService) AdminGetServerStats() (*ServerStats, error) {
	userCount, err := s.repos.User.CountAll()
	if err != nil {
		log.Printf("Count users error: %v\n", err)
		return nil, NewInternalError("获取统计信息失败")
	}
	postCount, err := s.repos.Post.CountAll()
	if err != nil {
		log.Printf("Count posts error: %v\n", err)
		return nil, NewInternalError("获取统计信息失败")
	}
	return &ServerStats{UserCount: userCount, PostCount: postCount}, nil
}
