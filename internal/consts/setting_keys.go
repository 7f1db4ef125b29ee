package consts

const (

	// ConfigSiteName 站点名称
	ConfigSiteName = "site_name"

	// ConfigSiteDescription 站点描述
	ConfigSiteDescription = "site_description"

	// ConfigAllowInit 是否允许初始化管理员账号 (true/false)
	ConfigAllowInit = "allow_init"

	// ConfigAllowRegister 是否开放注册 (true/false)
	ConfigAllowRegister = "allow_register"

	// ConfigAllowAdminRegister 是否允许注册时直接申请管理员角色 (true/false)
	ConfigAllowAdminRegister = "allow_admin_register"

	// ConfigMaxUploadSize 图片最大上传限制 (MB)
	ConfigMaxUploadSize = "max_upload_size"

	// ConfigAllowFileExtensions 允许上传的文件扩展名 (逗号分隔)
	ConfigAllowFileExtensions = "allow_file_extensions"

	// ConfigRateLimitEnabled 是否开启限流
	ConfigRateLimitEnabled = "rate_limit_enabled"

	// ConfigRateLimitAuthRPS 认证接口限流 RPS
	ConfigRateLimitAuthRPS = "rate_limit_auth_rps"

	// ConfigRateLimitAuthBurst 认证接口限流 Burst
	ConfigRateLimitAuthBurst = "rate_limit_auth_burst"

	// ConfigRateLimitUploadRPS 上传接口限流 RPS
	ConfigRateLimitUploadRPS = "rate_limit_upload_rps"

	// ConfigRateLimitUploadBurst 上传接口限流 Burst
	ConfigRateLimitUploadBurst = "rate_limit_upload_burst"

	// ConfigRateLimitLikeRPS 点赞接口限流 RPS
	ConfigRateLimitLikeRPS = "rate_limit_like_rps"

	// ConfigRateLimitLikeBurst 点赞接口限流 Burst
	ConfigRateLimitLikeBurst = "rate_limit_like_burst"

	// ConfigMaxRequestBodySize 最大请求体限制 (MB)
	ConfigMaxRequestBodySize = "max_request_body_size"

	// ConfigStaticCacheControl 静态资源缓存设置 (Cache-Control header value)
	ConfigStaticCacheControl = "static_cache_control"

	// ConfigTrustedProxies 可信代理列表，逗号分隔的 IP 或 CIDR，为空表示不信任任何代理
	ConfigTrustedProxies = "trusted_proxies"
)
