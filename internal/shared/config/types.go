package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host                  string   `mapstructure:"host"`
	Port                  int      `mapstructure:"port"`
	Mode                  string   `mapstructure:"mode"`
	BaseURL               string   `mapstructure:"base_url"`
	AllowedOrigins        []string `mapstructure:"allowed_origins"`
	FrontendCallbackURL   string   `mapstructure:"frontend_callback_url"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
	Timezone              string   `mapstructure:"timezone"`
	EnableSwagger         bool     `mapstructure:"enable_swagger"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) RequestTimeout() time.Duration {
	if s.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// DatabaseConfig selects one of the supported gorm drivers.
// Driver is "mysql" (default), "postgres" or "sqlite"; for sqlite Database is the file path.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`

	// MigrationStrategy is "auto", "golang_migrate" or "goose"; empty picks by driver.
	MigrationStrategy string `mapstructure:"migration_strategy"`
	// SeedFile holds default settings and categories applied after migrating.
	SeedFile string `mapstructure:"seed_file"`
}

func (d *DatabaseConfig) GetDSN() string {
	switch strings.ToLower(d.Driver) {
	case "postgres":
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
	Issuer           string `mapstructure:"issuer"`
}

// AuthConfig controls who may sign in and which role they receive.
// SuperAdmins lists e-mails promoted to SUPER_ADMIN; DomainRoles maps an
// e-mail domain to the role granted on first sign-in.
type AuthConfig struct {
	JWT             JWTConfig         `mapstructure:"jwt"`
	AllowedDomains  []string          `mapstructure:"allowed_domains"`
	AllowedEmails   []string          `mapstructure:"allowed_emails"`
	SuperAdmins     []string          `mapstructure:"super_admins"`
	DomainRoles     map[string]string `mapstructure:"domain_roles"`
	DevLogin        bool              `mapstructure:"dev_login"`
	StateTTLSeconds int               `mapstructure:"state_ttl_seconds"`
}

func (a *AuthConfig) StateTTL() time.Duration {
	if a.StateTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.StateTTLSeconds) * time.Second
}

// OIDCConfig configures the single sign-on provider (Azure AD by default).
type OIDCConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	TenantID     string   `mapstructure:"tenant_id"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	Scopes       []string `mapstructure:"scopes"`
}

func (o *OIDCConfig) Endpoints() (authURL, tokenURL string) {
	if o.AuthURL != "" && o.TokenURL != "" {
		return o.AuthURL, o.TokenURL
	}
	base := fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0", o.TenantID)
	return base + "/authorize", base + "/token"
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	AuthLimit     int  `mapstructure:"auth_limit"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

type MessagingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

type RetentionConfig struct {
	AuditDays        int `mapstructure:"audit_days"`
	NotificationDays int `mapstructure:"notification_days"`
}

type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	AuditPurgeCron   string `mapstructure:"audit_purge_cron"`
	NotifyPurgeCron  string `mapstructure:"notification_purge_cron"`
	OverdueSweepCron string `mapstructure:"overdue_sweep_cron"`
	HealthCheckCron  string `mapstructure:"health_check_cron"`
}

type ExportConfig struct {
	TempDir   string `mapstructure:"temp_dir"`
	BatchSize int    `mapstructure:"batch_size"`
}
