package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./seopilot.db" description:"Path to the SQLite backing store (created on first run)"`

	// Application configuration
	Port               string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey       string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	SchedulerInterval  int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler poll interval in seconds"`
	InventoryThreshold int    `long:"inventory-threshold" env:"INVENTORY_THRESHOLD" default:"10" description:"Minimum count of not-yet-published records before proactive generation"`
	ReminderLeadHours  int    `long:"reminder-lead-hours" env:"REMINDER_LEAD_HOURS" default:"3" description:"Hours before publish time to emit the approval reminder"`
	PlatformsDir       string `long:"platforms-dir" env:"PLATFORMS_DIR" description:"Directory with platform profile YAML files (optional, built-in defaults otherwise)"`

	// External collaborators
	PipeWebhookURL    string `long:"pipe-webhook-url" env:"PIPE_WEBHOOK_URL" description:"Distribution pipe webhook URL (optional, disables auto-publish if unset)"`
	WebsiteAPIToken   string `long:"website-api-token" env:"WEBSITE_API_TOKEN" description:"Website API token for direct article publishing (optional)"`
	WebsiteAuthStyle  string `long:"website-auth-style" env:"WEBSITE_AUTH_STYLE" default:"header" description:"Website API auth style: header or bearer"`
	OpenAIAPIKey      string `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI API key for content and image generation (optional)"`
	OpenAIModel       string `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o" description:"OpenAI model for article generation"`
	AnthropicAPIKey   string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key for content generation (optional)"`
	AnthropicModel    string `long:"anthropic-model" env:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514" description:"Anthropic model for article generation"`
	UnsplashAccessKey string `long:"unsplash-access-key" env:"UNSPLASH_ACCESS_KEY" description:"Unsplash access key for stock cover images (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"SEO Pilot/1.0" description:"User agent string for outbound HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for schedule computation (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:             raw.DBPath,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		SchedulerInterval:  raw.SchedulerInterval,
		InventoryThreshold: raw.InventoryThreshold,
		ReminderLeadHours:  raw.ReminderLeadHours,
		PlatformsDir:       raw.PlatformsDir,
		PipeWebhookURL:     raw.PipeWebhookURL,
		WebsiteAPIToken:    raw.WebsiteAPIToken,
		WebsiteAuthStyle:   raw.WebsiteAuthStyle,
		OpenAIAPIKey:       raw.OpenAIAPIKey,
		OpenAIModel:        raw.OpenAIModel,
		AnthropicAPIKey:    raw.AnthropicAPIKey,
		AnthropicModel:     raw.AnthropicModel,
		UnsplashAccessKey:  raw.UnsplashAccessKey,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the package-level configuration. Used by tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
