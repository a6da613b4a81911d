package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}[:{unique_id}]
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// TextModulePrefix 解析文本模块
	TextModulePrefix = "text"
	// AnalyticsModulePrefix 统计分析模块
	AnalyticsModulePrefix = "analytics"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityCache 缓存实体
	EntityCache = "cache"

	// KeyRawFileMD5Set 原始文件MD5集合，用于上传去重 (SET)
	// 格式: app:file:dedup_set
	KeyRawFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyParsedTextMD5Set 解析文本MD5集合，用于内容去重 (SET)
	// 格式: app:text:dedup_set
	KeyParsedTextMD5Set = AppPrefix + ":" + TextModulePrefix + ":" + EntityDedupSet

	// KeyDashboardCache 仪表盘聚合缓存 (STRING, JSON序列化)
	// 格式: app:analytics:cache
	KeyDashboardCache = AppPrefix + ":" + AnalyticsModulePrefix + ":" + EntityCache
)
