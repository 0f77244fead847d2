package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		URL           string // takes precedence over the discrete fields when set
		Engine        string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		Name          string
		DisableTLS    bool
	}

	ServerConfig struct {
		Host               string
		PublicURL          string // advertised base URL of the API
		Address            string
		DebugHost          string
		JWTAlgorithm       string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
		ReadTimeout        time.Duration
		WriteTimeout       time.Duration
	}

	CORSConfig struct {
		AllowOrigins     []string
		AllowOriginRegex string
	}

	OSSConfig struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
	}

	StorageConfig struct {
		Backend   string // "local" or "oss"
		UploadDir string // root of the local blob store; holds the uploads/ tree
		OSS       OSSConfig
	}

	AdminConfig struct {
		DefaultUsername string
		DefaultPassword string
	}

	Config struct {
		AppName      string
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		WorkDir      string
		Database     DatabaseConfig
		Server       ServerConfig
		CORS         CORSConfig
		Storage      StorageConfig
		Admin        AdminConfig
	}
)

// Address returns the "host:port" of the database server.
func (dc DatabaseConfig) Address() string {
	if dc.Port == "" {
		return dc.Host
	}
	return net.JoinHostPort(dc.Host, dc.Port)
}

func newViper(env string) *viper.Viper {
	v := viper.New()

	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Vidyalaya")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "k2x!w9%tq0z#a7d^m4r&e1v$s8n(c3b)")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.user", "vidyalaya")
	v.SetDefault("database.password", "vidyalaya")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "vidyalaya")
	v.SetDefault("database.disableTLS", true)
	_ = v.BindEnv("database.url", "DATABASE_URL")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.publicURL", "http://localhost:8000")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.jwtAlgorithm", "HS256")
	v.SetDefault("server.jwtExpirationDelta", 30*time.Minute)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)

	v.SetDefault("cors.allowOrigins", []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	})
	v.SetDefault("cors.allowOriginRegex", `https://.*\.onrender\.com`)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.uploadDir", ".")

	v.SetDefault("admin.defaultUsername", "admin")
	v.SetDefault("admin.defaultPassword", "Admin@123")

	if env == "TEST" {
		v.SetDefault("testMode", true)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewConfig loads the app configuration: defaults < config/.env.<env> < environment variables.
// The environment is selected with ENV: DEV (local; default), TEST, QA, PROD.
func NewConfig() *Config {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v := newViper(env)
	conf := &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		WorkDir:      wd,
		Database: DatabaseConfig{
			URL:           normalizeDatabaseURL(v.GetString("database.url")),
			Engine:        v.GetString("database.engine"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			PublicURL:          v.GetString("server.publicURL"),
			Address:            v.GetString("server.address"),
			DebugHost:          v.GetString("server.debugHost"),
			JWTAlgorithm:       v.GetString("server.jwtAlgorithm"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			ReadTimeout:        v.GetDuration("server.readTimeout"),
			WriteTimeout:       v.GetDuration("server.writeTimeout"),
		},
		CORS: CORSConfig{
			AllowOrigins:     splitList(v.GetStringSlice("cors.allowOrigins")),
			AllowOriginRegex: v.GetString("cors.allowOriginRegex"),
		},
		Storage: StorageConfig{
			Backend:   strings.ToLower(v.GetString("storage.backend")),
			UploadDir: v.GetString("storage.uploadDir"),
			OSS: OSSConfig{
				Endpoint:  v.GetString("storage.oss.endpoint"),
				AccessKey: v.GetString("storage.oss.accessKey"),
				SecretKey: v.GetString("storage.oss.secretKey"),
				Bucket:    v.GetString("storage.oss.bucket"),
			},
		},
		Admin: AdminConfig{
			DefaultUsername: v.GetString("admin.defaultUsername"),
			DefaultPassword: v.GetString("admin.defaultPassword"),
		},
	}
	if !filepath.IsAbs(conf.Storage.UploadDir) {
		conf.Storage.UploadDir = filepath.Join(wd, conf.Storage.UploadDir)
	}
	return conf
}

// NewTestConfig returns a Config suitable for unit tests; it never touches the environment.
func NewTestConfig() *Config {
	return &Config{
		AppName:   "Vidyalaya",
		Env:       "TEST",
		Build:     "test",
		TestMode:  true,
		SecretKey: "test-secret",
		Server: ServerConfig{
			PublicURL:          "http://localhost:8000",
			JWTAlgorithm:       "HS256",
			JWTExpirationDelta: 30 * time.Minute,
			ShutdownTimeout:    time.Second,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowOriginRegex: `https://.*\.onrender\.com`,
		},
		Storage: StorageConfig{Backend: "local"},
		Admin:   AdminConfig{DefaultUsername: "admin", DefaultPassword: "Admin@123"},
	}
}

// normalizeDatabaseURL rewrites the "postgresql://" scheme some managed providers hand out.
func normalizeDatabaseURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "postgresql://") {
		return "postgres://" + strings.TrimPrefix(u, "postgresql://")
	}
	return u
}

// splitList flattens comma separated entries, since env vars arrive as a single string.
func splitList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
