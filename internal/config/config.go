package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Default polling cadence, used when the config file leaves the
// intervals unset.
const (
	DefaultConversationPollSeconds = 15
	DefaultMessagePollSeconds      = 5
)

// Config holds the application configuration
type Config struct {
	ServerURL string `json:"server_url"`           // Base URL of the chat server (e.g., "https://chat.example.com")
	AuthToken string `json:"auth_token,omitempty"` // Bearer token from `parley login`

	UserID    string `json:"user_id,omitempty"`    // Identity of the local user on the server
	UserName  string `json:"user_name,omitempty"`  // Display name, cached from login
	UserEmail string `json:"user_email,omitempty"` // Email used for OTP login

	Theme                string `json:"theme,omitempty"`                 // UI theme name (e.g., "dark-purple", "nord")
	NotificationsEnabled bool   `json:"notifications_enabled,omitempty"` // Desktop notifications for messages in background conversations

	ConversationPollSeconds int `json:"conversation_poll_seconds,omitempty"` // Sidebar refresh cadence
	MessagePollSeconds      int `json:"message_poll_seconds,omitempty"`      // Active-conversation refresh cadence

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".parley"), nil
}

// configPath returns the path to the config file
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or creates a new one if it doesn't exist
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path. Used by tests and by
// the --config flag.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		filePath: path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.ensureInitialized()
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Fill defaults before Validate() since Validate() only reads
	cfg.ensureInitialized()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureInitialized fills in defaults for unset fields.
//
// Thread-safety: This method is NOT thread-safe and must only be called
// during single-threaded initialization (i.e., from Load/LoadFrom before the
// Config is shared across goroutines).
func (c *Config) ensureInitialized() {
	if c.ConversationPollSeconds <= 0 {
		c.ConversationPollSeconds = DefaultConversationPollSeconds
	}
	if c.MessagePollSeconds <= 0 {
		c.MessagePollSeconds = DefaultMessagePollSeconds
	}
}

// Validate checks that the config is internally consistent.
// This is a read-only operation - call ensureInitialized() first if needed.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ServerURL != "" {
		if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
			return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
		}
	}

	// A token without an identity is unusable; the server scopes every
	// request to a user.
	if c.AuthToken != "" && c.UserID == "" {
		return fmt.Errorf("auth_token is set but user_id is empty; re-run 'parley login'")
	}

	if c.ConversationPollSeconds < 0 {
		return fmt.Errorf("conversation_poll_seconds must be positive, got %d", c.ConversationPollSeconds)
	}
	if c.MessagePollSeconds < 0 {
		return fmt.Errorf("message_poll_seconds must be positive, got %d", c.MessagePollSeconds)
	}

	return nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Token lives in this file, keep it out of group/other hands
	return os.WriteFile(c.filePath, data, 0600)
}

// FilePath returns the path this config was loaded from
func (c *Config) FilePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// IsLoggedIn returns whether a usable identity is present
func (c *Config) IsLoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthToken != "" && c.UserID != ""
}

// GetServerURL returns the chat server base URL
func (c *Config) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ServerURL
}

// SetServerURL sets the chat server base URL
func (c *Config) SetServerURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ServerURL = strings.TrimRight(url, "/")
}

// GetAuthToken returns the bearer token
func (c *Config) GetAuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthToken
}

// GetUserID returns the local user's server identity
func (c *Config) GetUserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.UserID
}

// GetUserName returns the cached display name
func (c *Config) GetUserName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.UserName
}

// SetIdentity records the identity returned by a successful login
func (c *Config) SetIdentity(userID, userName, email, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UserID = userID
	c.UserName = userName
	c.UserEmail = email
	c.AuthToken = token
}

// ClearIdentity wipes the stored identity and token
func (c *Config) ClearIdentity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UserID = ""
	c.UserName = ""
	c.UserEmail = ""
	c.AuthToken = ""
}

// GetTheme returns the current theme name
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme sets the current theme name
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetNotificationsEnabled returns whether desktop notifications are enabled
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotificationsEnabled sets whether desktop notifications are enabled
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}

// ConversationPollInterval returns the sidebar refresh cadence
func (c *Config) ConversationPollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.ConversationPollSeconds) * time.Second
}

// MessagePollInterval returns the active-conversation refresh cadence
func (c *Config) MessagePollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.MessagePollSeconds) * time.Second
}
