package janitor

import (
	"blog-server/internal/config"
	"blog-server/internal/consts"
	"blog-server/internal/repository"
	"blog-server/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrAlreadyRunning = errors.New("janitor sweep already running")

// Report 单次清理的统计结果
type Report struct {
	Scanned    int `json:"scanned"`
	Referenced int `json:"referenced"`
	Orphans    int `json:"orphans"`
	Deleted    int `json:"deleted"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// Janitor 回收没有任何记录引用的图片文件。
// 宽限期内的新文件不会被删除，避免与进行中的上传竞争。
type Janitor struct {
	blobs    storage.BlobStore
	posts    repository.PostStore
	users    repository.UserStore
	grace    time.Duration
	schedule string
	now      func() time.Time

	running sync.Mutex
	cron    *cron.Cron
}

func New(blobs storage.BlobStore, repos *repository.Repositories, cfg config.JanitorConfig) *Janitor {
	grace := time.Duration(cfg.GraceMinutes) * time.Minute
	if grace < 0 {
		grace = 0
	}
	return &Janitor{
		blobs:    blobs,
		posts:    repos.Post,
		users:    repos.User,
		grace:    grace,
		schedule: cfg.Schedule,
		now:      time.Now,
	}
}

// referencedKeys 收集文章配图与头像引用的全部 key
func (j *Janitor) referencedKeys() (map[string]struct{}, error) {
	imageKeys, err := j.posts.ListImageKeys()
	if err != nil {
		return nil, fmt.Errorf("list post image keys: %w", err)
	}
	avatarKeys, err := j.users.ListAvatarKeys()
	if err != nil {
		return nil, fmt.Errorf("list avatar keys: %w", err)
	}

	refs := make(map[string]struct{}, len(imageKeys)+len(avatarKeys))
	for _, k := range imageKeys {
		refs[k] = struct{}{}
	}
	for _, k := range avatarKeys {
		refs[k] = struct{}{}
	}
	return refs, nil
}

// RunOnce 执行一次清理。同一时间只允许一次清理在运行。
func (j *Janitor) RunOnce(ctx context.Context) (Report, error) {
	var report Report
	if !j.running.TryLock() {
		return report, ErrAlreadyRunning
	}
	defer j.running.Unlock()

	// 先列文件再查引用：列举之后新建的记录只会让文件被保留
	var blobs []storage.BlobInfo
	for _, ns := range []string{consts.BlobNamespacePosts, consts.BlobNamespaceAvatars} {
		items, err := j.blobs.List(ctx, ns+"/")
		if err != nil {
			return report, fmt.Errorf("list blobs %s: %w", ns, err)
		}
		blobs = append(blobs, items...)
	}
	report.Scanned = len(blobs)

	refs, err := j.referencedKeys()
	if err != nil {
		return report, err
	}

	cutoff := j.now().Add(-j.grace)
	for _, blob := range blobs {
		if _, ok := refs[blob.Key]; ok {
			report.Referenced++
			continue
		}
		report.Orphans++
		if blob.ModTime.After(cutoff) {
			report.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := j.blobs.Delete(ctx, blob.Key); err != nil {
			report.Failed++
			log.Printf("Warning: 清理孤立文件 %s 失败: %v\n", blob.Key, err)
			continue
		}
		report.Deleted++
	}

	return report, nil
}

// Start 按配置的计划定时清理
func (j *Janitor) Start() error {
	if j.schedule == "" {
		return errors.New("janitor schedule is empty")
	}

	c := cron.New()
	if _, err := c.AddFunc(j.schedule, j.runScheduled); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}
	c.Start()
	j.cron = c
	log.Printf("🧹 孤立文件清理任务已启动，计划: %s", j.schedule)
	return nil
}

func (j *Janitor) runScheduled() {
	report, err := j.RunOnce(context.Background())
	if err != nil {
		if !errors.Is(err, ErrAlreadyRunning) {
			log.Printf("❌ 孤立文件清理失败: %v", err)
		}
		return
	}
	if report.Deleted > 0 || report.Failed > 0 {
		log.Printf("🧹 孤立文件清理完成: 扫描 %d，删除 %d，失败 %d", report.Scanned, report.Deleted, report.Failed)
	}
}

// Stop 停止定时任务并等待进行中的清理结束
func (j *Janitor) Stop() {
	if j.cron == nil {
		return
	}
	<-j.cron.Stop().Done()
}
