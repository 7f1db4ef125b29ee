package service

import (
	"blog-server/internal/consts"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/utils"
	"context"
	"errors"
	"log"
	"mime/multipart"
	"time"

	"gorm.io/gorm"
)

type PostAuthor struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type PostView struct {
	ID         uint            `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Image      model.PostImage `json:"image"`
	ImageURL   string          `json:"image_url"`
	Author     PostAuthor      `json:"author"`
	LikesCount int             `json:"likes_count"`
	Likes      []string        `json:"likes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type CreatePostPayload struct {
	Title   string
	Content string
	Image   *multipart.FileHeader
}

type EditPostPayload struct {
	Title   string
	Content string
	Image   *multipart.FileHeader
}

func (s *AppService) toPostView(post *model.Post) PostView {
	view := PostView{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		Image:      post.Image,
		ImageURL:   s.blobURL(post.Image.BlobKey()),
		Author:     PostAuthor{ID: post.UserID, Username: post.User.Username},
		LikesCount: post.LikesCount,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
	if len(post.Likes) > 0 {
		view.Likes = make([]string, 0, len(post.Likes))
		for _, like := range post.Likes {
			view.Likes = append(view.Likes, like.User.Username)
		}
	}
	return view
}

func (s *AppService) toPostViews(posts []model.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, s.toPostView(&posts[i]))
	}
	return views
}

// CreatePost 发布文章，配图必填。记录写入失败时删除已保存的配图。
func (s *AppService) CreatePost(ctx context.Context, authorID uint, payload CreatePostPayload) (*PostView, error) {
	if ok, msg := utils.ValidatePostFields(payload.Title, payload.Content); !ok {
		return nil, NewValidationError(msg)
	}
	author, err := s.findUser(authorID)
	if err != nil {
		return nil, err
	}

	imageKey, err := s.storeImage(ctx, consts.BlobNamespacePosts, payload.Image)
	if err != nil {
		return nil, err
	}

	post := model.Post{
		Title:   payload.Title,
		Content: payload.Content,
		Image:   model.BlobImage(imageKey),
		UserID:  author.ID,
	}
	if err := s.repos.Post.Create(&post); err != nil {
		s.deleteBlobBestEffort(ctx, imageKey)
		log.Printf("Create post error: %v\n", err)
		return nil, NewInternalError("发布文章失败")
	}

	post.User = *author
	view := s.toPostView(&post)
	return &view, nil
}

func (s *AppService) ListPosts() ([]PostView, error) {
	posts, err := s.repos.Post.ListAll()
	if err != nil {
		log.Printf("List posts error: %v\n", err)
		return nil, NewInternalError("获取文章列表失败")
	}
	return s.toPostViews(posts), nil
}

// ListPostsByAuthor 作者不存在时返回 NotFound。
func (s *AppService) ListPostsByAuthor(userID uint) ([]PostView, error) {
	if _, err := s.findUser(userID); err != nil {
		return nil, err
	}
	posts, err := s.repos.Post.ListByAuthor(userID)
	if err != nil {
		log.Printf("List posts by author error: %v\n", err)
		return nil, NewInternalError("获取文章列表失败")
	}
	return s.toPostViews(posts), nil
}

func (s *AppService) ListPostsByUsername(username string) ([]PostView, error) {
	user, err := s.repos.User.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("用户不存在")
		}
		log.Printf("Find user by username error: %v\n", err)
		return nil, NewInternalError("获取文章列表失败")
	}
	posts, err := s.repos.Post.ListByAuthor(user.ID)
	if err != nil {
		log.Printf("List posts by author error: %v\n", err)
		return nil, NewInternalError("获取文章列表失败")
	}
	return s.toPostViews(posts), nil
}

// GetPost 返回文章详情，包含作者与点赞用户名。
func (s *AppService) GetPost(postID uint) (*PostView, error) {
	post, err := s.repos.Post.FindByIDWithLikes(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("文章不存在")
		}
		log.Printf("Find post error: %v\n", err)
		return nil, NewInternalError("获取文章失败")
	}
	view := s.toPostView(post)
	return &view, nil
}

// findOwnedPost 按 id 与作者查询，不存在或非本人均视为 NotFound。
func (s *AppService) findOwnedPost(postID, authorID uint) (*model.Post, error) {
	post, err := s.repos.Post.FindByIDAndAuthor(postID, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("文章不存在")
		}
		log.Printf("Find post error: %v\n", err)
		return nil, NewInternalError("查询文章失败")
	}
	return post, nil
}

// EditPost 替换标题与正文；提供新配图时先写新文件，更新成功后删除旧文件。
func (s *AppService) EditPost(ctx context.Context, postID, authorID uint, payload EditPostPayload) (*PostView, error) {
	post, err := s.findOwnedPost(postID, authorID)
	if err != nil {
		return nil, err
	}
	if ok, msg := utils.ValidatePostFields(payload.Title, payload.Content); !ok {
		return nil, NewValidationError(msg)
	}

	updates := map[string]interface{}{
		"title":   payload.Title,
		"content": payload.Content,
	}

	oldKey := post.Image.BlobKey()
	newKey := ""
	if payload.Image != nil {
		newKey, err = s.storeImage(ctx, consts.BlobNamespacePosts, payload.Image)
		if err != nil {
			return nil, err
		}
		updates["image_kind"] = model.ImageKindBlob
		updates["image_key"] = newKey
	}

	if err := s.repos.Post.UpdateByID(post.ID, updates); err != nil {
		s.deleteBlobBestEffort(ctx, newKey)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("文章不存在")
		}
		log.Printf("Update post error: %v\n", err)
		return nil, NewInternalError("更新文章失败")
	}

	if newKey != "" {
		s.deleteBlobBestEffort(ctx, oldKey)
	}

	updated, err := s.repos.Post.FindByID(post.ID)
	if err != nil {
		log.Printf("Reload post error: %v\n", err)
		return nil, NewInternalError("更新文章失败")
	}
	view := s.toPostView(updated)
	return &view, nil
}

// LikePost 点赞并返回最新计数，同一账号重复点赞返回 Conflict。
func (s *AppService) LikePost(postID, userID uint) (int, error) {
	likesCount, err := s.repos.Post.AddLike(postID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyLiked):
			return 0, NewConflictError("你已经点赞过该文章")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return 0, NewNotFoundError("文章不存在")
		}
		log.Printf("Like post error: %v\n", err)
		return 0, NewInternalError("点赞失败")
	}
	return likesCount, nil
}

// DeletePost 作者删除自己的文章。
func (s *AppService) DeletePost(ctx context.Context, postID, authorID uint) error {
	post, err := s.findOwnedPost(postID, authorID)
	if err != nil {
		return err
	}
	return s.purgePost(ctx, post)
}
