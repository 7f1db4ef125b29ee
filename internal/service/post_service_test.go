package service

import (
	"context"
	"strings"
	"testing"

	"blog-server/internal/consts"
	"blog-server/internal/model"
)

func createTestPost(t *testing.T, svc *AppService, authorID uint, title string) *PostView {
	t.Helper()
	view, err := svc.CreatePost(context.Background(), authorID, CreatePostPayload{
		Title:   title,
		Content: "hello world",
		Image:   pngHeader(t),
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return view
}

// 测试内容：验证发布文章保存配图 blob 并返回作者信息。
func TestCreatePost_Success(t *testing.T) {
	svc, gdb, blobs := setupTestService(t)
	alice := createTestUser(t, gdb, "alice", "password123")

	view := createTestPost(t, svc, alice.ID, "first")
	if view.Author.ID != alice.ID || view.Author.Username != "alice" {
		t.Fatalf("非预期作者: %+v", view.Author)
	}
	if view.Image.Kind != model.ImageKindBlob || !strings.HasPrefix(view.Image.Key, consts.BlobNamespacePosts+"/") {
		t.Fatalf("非预期配图: %+v", view.Image)
	}
	if view.ImageURL != "/uploads/"+view.Image.Key {
		t.Fatalf("非预期配图 URL: %q", view.ImageURL)
	}
	if !blobExists(t, blobs, view.Image.Key) {
		t.Fatalf("期望配图文件存在")
	}
}

// 测试内容：验证缺少配图、标题为空或作者不存在时发布失败。
func TestCreatePost_Rejections(t *testing.T) {
	svc, gdb, _ := setupTestService(t)
	alice := createTestUser(t, gdb, "alice", "password123")
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, alice.ID, CreatePostPayload{Title: "t", Content: "c"})
	assertServiceErrorCode(t, err, ErrorCodeValidation)

	_, err = svc.CreatePost(ctx, alice.ID, CreatePostPayload{Title: "", Content: "c", Image: pngHeader(t)})
	assertServiceErrorCode(t, err, ErrorCodeValidation)

	_, err = svc.CreatePost(ctx, 9999, CreatePostPayload{Title: "t", Content: "c", Image: pngHeader(t)})
	assertServiceErrorCode(t, err, ErrorCodeNotFound)

	_, err = svc.CreatePost(ctx, alice.ID, CreatePostPayload{Title: "t", Content: "c", Image: newFileHeader(t, "a.exe", []byte("MZ"))})
	assertServiceErrorCode(t, err, ErrorCodeValidation)
}

// 测试内容：验证文章列表、按作者与按用户名查询。
func TestListPosts(t *testing.T) {
	svc, gdb, _ := setupTestService(t)
	alice := createTestUser(t, gdb, "alice", "password123")
	bob := createTestUser(t, gdb, "bobby", "password123")
	createTestPost(t, svc, alice.ID, "a1")
	createTestPost(t, svc, alice.ID, "a2")
	createTestPost(t, svc, bob.ID, "b1")

	all, err := svc.ListPosts()
	if err != nil || len(all) != 3 {
		t.Fatalf("期望 3 篇文章，实际为 %d err=%v", len(all), err)
	}
	if all[0].Title != "b1" {
		t.Fatalf("期望最新文章在前，实际为 %q", all[0].Title)
	}

	byAuthor, err := svc.ListPostsByAuthor(alice.ID)
	if err != nil || len(byAuthor) != 2 {
		t.Fatalf("期望 alice 有 2 篇文章，实际为 %d err=%v", len(byAuthor), err)
	}
	_, err = svc.ListPostsByAuthor(9999)
	assertServiceErrorCode(t, err, ErrorCodeNotFound)

	byName, err := svc.ListPostsByUsername("bobby")
	if err != nil || len(byName) != 1 || byName[0].Author.Username != "bobby" {
		t.Fatalf("非预期结果: %+v err=%v", byName, err)
	}
	_, err = svc.ListPostsByUsername("nobody")
	assertServiceErrorCode(t, err, ErrorCodeNotFound)
}

// 测试内容：验证重复点赞返回 Conflict 且计数与点赞集合保持一致。
func TestLikePost_ConflictKeepsCount(t *testing.T) {
	svc, gdb, _ := setupTestService(t)
	alice := createTestUser(t, gdb, "alice", "password123")
	bob := createTestUser(t, gdb, "bobby", "password123")
	post := createTestPost(t, svc, alice.ID, "hello")

	count, err := svc.LikePost(post.ID, bob.ID)
	if err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	if count != 1 {
		t.Fatalf("期望计数 1，实际为 %d", count)
	}

	_, err = svc.LikePost(post.ID, bob.ID)
	assertServiceErrorCode(t, err, ErrorCodeConflict)

	_, err = svc.LikePost(9999, bob.ID)
	assertServiceErrorCode(t, err, ErrorCodeNotFound)

	detail, err := svc.GetPost(post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if detail.LikesCount != 1 || len(detail.Likes) != 1 || detail.Likes[0] != "bobby" {
		t.Fatalf("非预期点赞状态: count=%d likes=%v", detail.LikesCount, detail.Likes)
	}
}

// 测试内容：验证只有作者能编辑文章，替换配图后旧文件被删除。
func TestEditPost(t *testing.T) {
	svc, gdb, blobs := setupTestService(t)
	alice := createTestUser(t, gdb, "alice", "password123")
	bob := createTestUser(t, gdb, "bobby", "password123")
	post := createTestPost(t, svc, alice.ID, "hello")
	ctx := context.Background()

	_, err := svc.EditPost(ctx, post.ID, bob.ID, EditPostPayload{Title: "x", Content: "y"})
	assertServiceErrorCode(t, err, ErrorCodeNotFound)

	edited, err := svc.EditPost(ctx, post.ID, alice.ID, EditPostPayload{Title: "new title", Content: "new content"})
	if err != nil {
		t.Fatalf("EditPost: %v", err)
	}
	if edited.Title != "new title" || edited.Image.Key != post.Image.Key {
		t.Fatalf("期望仅修改文字，实际为 %+v", edited)
	}

	replaced, err := svc.EditPost(ctx, post.ID, alice.ID, EditPostPayload{Title: "t", Content: "c", Image: pngHeader(t)})
	if err != nil {
		t.Fatalf("EditPost with image: %v", err)
	}
	if replaced.Image.Key == post.Image.Key {
		t.Fatalf("期望配图 key 改变")
	}
	if blobExists(t, blobs, post.Image.Key) {
		t.Fatalf("期望旧配图被删除")
	}
	if !blobExists(t, blobs, replaced.Image.Key) {
		t.Fatalf("期望新配图存在")
	}
}

// 测试内容：验证作者删除文章会删除配图与点赞，重复删除返回 NotFound。
func TestDeletePost_Owner(t *testing.T) {
	svc, gdb, blobs := setupTestService(t)
	alice := createTestUser(t, gdb, "alice", "password123")
	bob := createTestUser(t, gdb, "bobby", "password123")
	post := createTestPost(t, svc, alice.ID, "hello")
	if _, err := svc.LikePost(post.ID, bob.ID); err != nil {
		t.Fatalf("LikePost: %v", err)
	}
	ctx := context.Background()

	assertServiceErrorCode(t, svc.DeletePost(ctx, post.ID, bob.ID), ErrorCodeNotFound)

	if err := svc.DeletePost(ctx, post.ID, alice.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if blobExists(t, blobs, post.Image.Key) {
		t.Fatalf("期望配图被删除")
	}
	var likes int64
	gdb.Model(&model.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
	if likes != 0 {
		t.Fatalf("期望点赞被删除，实际为 %d", likes)
	}

	assertServiceErrorCode(t, svc.DeletePost(ctx, post.ID, alice.ID), ErrorCodeNotFound)
}
