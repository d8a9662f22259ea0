package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendMongo = "mongo"

	UploadLocal = "local"
	UploadS3    = "s3"

	// DefaultJWTKey 未配置 JWT_KEY 时的开发用密钥，非调试模式下不允许使用
	DefaultJWTKey = "your-secret-key"
)

// Config 应用配置
type Config struct {
	Port  int
	Debug bool

	// 内容存储
	ContentBackend string
	DataDir        string
	MongoURI       string
	MongoDB        string
	CacheTTL       time.Duration

	// 管理端
	AdminPassword   string
	JWTKey          string
	AdminSessionTTL time.Duration
	CORSOrigins     []string

	// 缓存失效与预热
	RedisAddr      string
	RedisChannel   string
	WatchFixtures  bool
	WarmupSchedule string
	NewsFeedURL    string

	// 论文摘要
	GeminiAPIKey string
	GeminiModel  string

	// 上传
	UploadBackend   string
	UploadDir       string
	UploadPublicURL string
	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string
}

// LoadConfig 从环境变量加载配置，存在 .env 时先加载
func LoadConfig() *Config {
	// .env 不存在属正常情况
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	return &Config{
		Port:  port,
		Debug: getEnv("GIN_MODE", "debug") == "debug",

		ContentBackend: strings.ToLower(getEnv("CONTENT_BACKEND", BackendFile)),
		DataDir:        getEnv("DATA_DIR", "data"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:        getEnv("MONGO_DB", "airlab"),
		CacheTTL:       getDuration("CACHE_TTL", 10*time.Minute),

		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		JWTKey:          getEnv("JWT_KEY", DefaultJWTKey),
		AdminSessionTTL: getDuration("ADMIN_SESSION_TTL", 12*time.Hour),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "")),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisChannel:   getEnv("REDIS_CHANNEL", "airlab:content:invalidate"),
		WatchFixtures:  getBool("WATCH_FIXTURES", false),
		WarmupSchedule: getEnv("WARMUP_SCHEDULE", ""),
		NewsFeedURL:    getEnv("NEWS_FEED_URL", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		UploadBackend:   strings.ToLower(getEnv("UPLOAD_BACKEND", UploadLocal)),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		UploadPublicURL: getEnv("UPLOAD_PUBLIC_URL", fmt.Sprintf("http://localhost:%d/uploads", port)),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
	}
}

// Validate 检查配置组合是否可用
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}
	switch c.ContentBackend {
	case BackendFile, BackendMongo:
	default:
		errs = append(errs, fmt.Errorf("unknown CONTENT_BACKEND %q", c.ContentBackend))
	}
	switch c.UploadBackend {
	case UploadLocal:
	case UploadS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when UPLOAD_BACKEND=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown UPLOAD_BACKEND %q", c.UploadBackend))
	}
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}
	if !c.Debug && (c.JWTKey == "" || c.JWTKey == DefaultJWTKey) {
		errs = append(errs, errors.New("JWT_KEY must be set to a private value outside debug mode"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration 支持 "10m" 或秒数
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
