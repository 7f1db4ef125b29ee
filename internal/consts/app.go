package consts

const (
	ApplicationName    = "Blog Server"
	ApplicationVersion = "v1.0.0"
)

// Blob key 命名空间
const (
	BlobNamespacePosts   = "posts"
	BlobNamespaceAvatars = "avatars"
)
