package core

import (
	"fmt"
	"log"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		DefaultFromEmail string
		SendgridAPIKey   string
		RollbarToken     string

		PasswordResetTimeout time.Duration

		Server          ServerConfig
		Database        DatabaseConfig
		Redis           RedisConfig
		IdentityBackend IdentityBackendConfig

		// DemoLatency simulates provider round trips when running against
		// the fixed demo directory.
		DemoLatency time.Duration
	}

	ServerConfig struct {
		Host                      string
		Port                      int
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		Name          string
		DisableTLS    bool
		MigrationsDir string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	// IdentityBackendConfig points at the hosted identity provider. When it
	// is absent or still carries scaffold placeholders the application runs
	// in demo mode against the fixed directory instead.
	IdentityBackendConfig struct {
		URL    string
		APIKey string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "EduChain")
	v.SetDefault("secretKey", "w3lv-x0q)edu$+57=ch&ainh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("passwordResetTimeout", 3*24*time.Hour)
	v.SetDefault("demoLatency", 0*time.Millisecond)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "educhain")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.migrationsDir", "migrations")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("identityBackend.url", "")
	v.SetDefault("identityBackend.apiKey", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		log.Fatalf("config.viper.Unmarshal: %v", err)
	}
	conf.Env = env
	return conf
}

// NewTestConfig returns a Config suitable for package tests: defaults only,
// test mode on, debug off so error responses keep their production shape,
// and no demo latency.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.DemoLatency = 0
	return conf
}

func (c *Config) DefaultFrom() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

// CheckIdentityBackend reports whether the hosted identity provider is usable.
// Scaffold placeholders count as unconfigured so a fresh checkout degrades to
// demo mode instead of calling a dead endpoint.
func (c *Config) CheckIdentityBackend() error {
	u, key := c.IdentityBackend.URL, c.IdentityBackend.APIKey
	if u == "" || key == "" {
		return &ConfigurationError{Reason: "identity backend URL or API key not set"}
	}
	for _, val := range []string{u, key} {
		lval := strings.ToLower(val)
		if strings.Contains(lval, "placeholder") || strings.Contains(val, "YOUR_") || val == "undefined" {
			return &ConfigurationError{Reason: "identity backend configuration still carries placeholder values"}
		}
	}
	if parsed, err := url.Parse(u); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ConfigurationError{Reason: fmt.Sprintf("identity backend URL %q is not a valid URL", u)}
	}
	return nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func Getwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}
	return cwd
}
