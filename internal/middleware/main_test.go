package middleware

import (
	"os"
	"testing"

	"blog-server/internal/config"
	"blog-server/internal/testutils"
)

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "blog-server-config-*")
	if err != nil {
		panic(err)
	}

	envs := []testutils.SavedEnv{
		testutils.SetEnv("BLOG_SERVER_MODE", "debug"),
		testutils.SetEnv("BLOG_JWT_SECRET", "test_secret"),
		testutils.SetEnv("BLOG_REDIS_ENABLED", "false"),
	}
	config.InitConfig(tmpDir)

	code := m.Run()

	testutils.RestoreEnv(envs)
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}
