package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the media collector
type Config struct {
	// Remote browser connection
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Target site conventions
	Site SiteConfig `yaml:"site" json:"site"`

	// Scroll-collect loop settings
	Scroll ScrollConfig `yaml:"scroll" json:"scroll"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Image download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// External video downloader
	Downloader DownloaderConfig `yaml:"downloader" json:"downloader"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig holds the debugging endpoint of the already running browser
type BrowserConfig struct {
	DebugURL       string        `yaml:"debug_url" json:"debug_url"`
	AttachAttempts int           `yaml:"attach_attempts" json:"attach_attempts"`
	PageLoadWait   time.Duration `yaml:"page_load_wait" json:"page_load_wait"`
}

// SiteConfig holds the URL and DOM markers of the target site
type SiteConfig struct {
	BaseURL         string `yaml:"base_url" json:"base_url"`
	ImageMarker     string `yaml:"image_marker" json:"image_marker"`
	VideoMarker     string `yaml:"video_marker" json:"video_marker"`
	ThumbnailMarker string `yaml:"thumbnail_marker" json:"thumbnail_marker"`
}

// ScrollConfig holds the scroll-collect loop configuration
type ScrollConfig struct {
	MaxIterations     int           `yaml:"max_iterations" json:"max_iterations"`
	StepPixels        int           `yaml:"step_pixels" json:"step_pixels"`
	StepsPerIteration int           `yaml:"steps_per_iteration" json:"steps_per_iteration"`
	Pause             time.Duration `yaml:"pause" json:"pause"`
	RenavigateWait    time.Duration `yaml:"renavigate_wait" json:"renavigate_wait"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory  string `yaml:"base_directory" json:"base_directory"`
	ImageExtension string `yaml:"image_extension" json:"image_extension"`
}

// DownloadConfig holds image download configuration
type DownloadConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// DownloaderConfig holds the external video downloader invocation settings
type DownloaderConfig struct {
	Path                string `yaml:"path" json:"path"`
	CookiesFromBrowser  string `yaml:"cookies_from_browser" json:"cookies_from_browser"`
	Format              string `yaml:"format" json:"format"`
	OutputTemplate      string `yaml:"output_template" json:"output_template"`
	ConcurrentFragments int    `yaml:"concurrent_fragments" json:"concurrent_fragments"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			DebugURL:       "http://localhost:9222",
			AttachAttempts: 3,
			PageLoadWait:   5 * time.Second,
		},
		Site: SiteConfig{
			BaseURL:         "https://x.com",
			ImageMarker:     "pbs.twimg.com/media/",
			VideoMarker:     "/video/",
			ThumbnailMarker: "video_thumb",
		},
		Scroll: ScrollConfig{
			MaxIterations:     10,
			StepPixels:        800,
			StepsPerIteration: 3,
			Pause:             2 * time.Second,
			RenavigateWait:    3 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory:  ".",
			ImageExtension: ".jpg",
		},
		Download: DownloadConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		},
		Downloader: DownloaderConfig{
			Path:                "./dlp",
			CookiesFromBrowser:  "chrome",
			Format:              "best",
			OutputTemplate:      "%(title)s-%(id)s.%(ext)s",
			ConcurrentFragments: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if debugURL := os.Getenv("XMEDIA_DEBUG_URL"); debugURL != "" {
		c.Browser.DebugURL = debugURL
	}
	if baseURL := os.Getenv("XMEDIA_BASE_URL"); baseURL != "" {
		c.Site.BaseURL = baseURL
	}

	if scrolls := os.Getenv("XMEDIA_MAX_SCROLLS"); scrolls != "" {
		val, err := strconv.Atoi(scrolls)
		if err != nil {
			return fmt.Errorf("invalid XMEDIA_MAX_SCROLLS %q: %w", scrolls, err)
		}
		c.Scroll.MaxIterations = val
	}

	if outputDir := os.Getenv("XMEDIA_OUTPUT_DIR"); outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if dlp := os.Getenv("XMEDIA_DOWNLOADER_PATH"); dlp != "" {
		c.Downloader.Path = dlp
	}
	if browser := os.Getenv("XMEDIA_COOKIES_FROM_BROWSER"); browser != "" {
		c.Downloader.CookiesFromBrowser = browser
	}
	if userAgent := os.Getenv("XMEDIA_USER_AGENT"); userAgent != "" {
		c.Download.UserAgent = userAgent
	}

	if logLevel := os.Getenv("XMEDIA_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("XMEDIA_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".xmedia.yaml",
		".xmedia.yml",
		filepath.Join(home, ".config", "xmedia", "config.yaml"),
		filepath.Join(home, ".config", "xmedia", "config.yml"),
		filepath.Join(home, ".xmedia.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Browser.DebugURL == "" {
		errs = append(errs, errors.New("browser debug URL is required"))
	}
	if c.Browser.AttachAttempts <= 0 {
		errs = append(errs, errors.New("attach attempts must be positive"))
	}
	if c.Browser.PageLoadWait < 0 {
		errs = append(errs, errors.New("page load wait cannot be negative"))
	}

	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		errs = append(errs, errors.New("site base URL must be absolute"))
	}
	if c.Site.ImageMarker == "" || c.Site.VideoMarker == "" {
		errs = append(errs, errors.New("image and video markers are required"))
	}

	if c.Scroll.MaxIterations <= 0 {
		errs = append(errs, errors.New("max scroll iterations must be positive"))
	}
	if c.Scroll.StepsPerIteration <= 0 {
		errs = append(errs, errors.New("steps per iteration must be positive"))
	}
	if c.Scroll.StepPixels <= 0 {
		errs = append(errs, errors.New("scroll step must be positive"))
	}
	if c.Scroll.Pause < 0 || c.Scroll.RenavigateWait < 0 {
		errs = append(errs, errors.New("scroll pauses cannot be negative"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if !strings.HasPrefix(c.Output.ImageExtension, ".") {
		errs = append(errs, errors.New("image extension must start with a dot"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Downloader.Path == "" {
		errs = append(errs, errors.New("downloader path is required"))
	}
	if c.Downloader.ConcurrentFragments <= 0 {
		errs = append(errs, errors.New("concurrent fragments must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if debugURL, ok := flags["debug-url"].(string); ok && debugURL != "" {
		c.Browser.DebugURL = debugURL
	}
	if scrolls, ok := flags["max-scrolls"].(int); ok && scrolls > 0 {
		c.Scroll.MaxIterations = scrolls
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.BaseDirectory = outputDir
	}
	if dlp, ok := flags["downloader"].(string); ok && dlp != "" {
		c.Downloader.Path = dlp
	}
	if pause, ok := flags["pause"].(time.Duration); ok && pause >= 0 {
		c.Scroll.Pause = pause
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// MediaDir returns the per-profile image folder
func (c *Config) MediaDir(username string) string {
	return filepath.Join(c.Output.BaseDirectory, username+"_media")
}

// BatchFile returns the per-profile video URL batch file
func (c *Config) BatchFile(username string) string {
	return filepath.Join(c.Output.BaseDirectory, username+"_videos.txt")
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".xmedia.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
