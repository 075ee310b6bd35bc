package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// DefaultPath is where the agent looks for its settings unless --config
// points elsewhere.
const DefaultPath = "config.json"

// Upload methods. The set is closed: these are the only two transports.
const (
	MethodFTP  = "ftp"
	MethodSFTP = "sftp"
)

// FTPConfig holds plain FTP login settings.
type FTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// SFTPConfig holds SSH login settings. When PrivateKeyFile is set it takes
// precedence over Password.
type SFTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
}

// WebhookConfig points at an optional endpoint that receives a JSON event
// after every upload attempt. An empty URL disables notifications.
type WebhookConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// Config is the whole persisted configuration. It is loaded once at startup
// and treated as read-only for the rest of the run.
type Config struct {
	PluginDir       string        `mapstructure:"plugin_dir"`
	ServerPluginDir string        `mapstructure:"server_plugin_dir"`
	PluginName      string        `mapstructure:"plugin_name"`
	AutoUpload      bool          `mapstructure:"auto_upload"`
	UploadMethod    string        `mapstructure:"upload_method"`
	LogLevel        string        `mapstructure:"log_level"`
	WatchSuffixes   []string      `mapstructure:"watch_suffixes"`
	HistoryDB       string        `mapstructure:"history_db"`
	FTP             FTPConfig     `mapstructure:"ftp"`
	SFTP            SFTPConfig    `mapstructure:"sftp"`
	Webhook         WebhookConfig `mapstructure:"webhook"`
}

// Load reads the config file at path. When the file does not exist it is
// created with placeholder defaults first, so a fresh checkout produces an
// editable template instead of an error. A file that exists but does not
// parse is fatal to the caller; nothing is merged or repaired.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		setDefaults(v)
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		log.Infof("Created default config at %s, edit it before uploading anywhere real", path)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("plugin_dir", "/path/to/your/plugin")
	v.SetDefault("server_plugin_dir", "/path/to/server/plugins")
	v.SetDefault("plugin_name", "your_plugin_name.zip")
	v.SetDefault("auto_upload", true)
	v.SetDefault("upload_method", MethodFTP)
	v.SetDefault("log_level", "info")
	v.SetDefault("watch_suffixes", []string{".py"})
	v.SetDefault("history_db", "plugsync.db")
	v.SetDefault("ftp.host", "ftp.example.com")
	v.SetDefault("ftp.port", 21)
	v.SetDefault("ftp.username", "your_ftp_username")
	v.SetDefault("ftp.password", "your_ftp_password")
	v.SetDefault("sftp.host", "sftp.example.com")
	v.SetDefault("sftp.port", 22)
	v.SetDefault("sftp.username", "your_sftp_username")
	v.SetDefault("sftp.password", "your_sftp_password")
	v.SetDefault("sftp.private_key_file", "")
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.token", "")
}
