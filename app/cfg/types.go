package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	Port               string
	APIAccessKey       string
	SchedulerInterval  int
	InventoryThreshold int
	ReminderLeadHours  int
	PlatformsDir       string

	// External collaborators
	PipeWebhookURL    string
	WebsiteAPIToken   string
	WebsiteAuthStyle  string
	OpenAIAPIKey      string
	OpenAIModel       string
	AnthropicAPIKey   string
	AnthropicModel    string
	UnsplashAccessKey string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// HasPipe reports whether a distribution pipe webhook is configured.
// Generation and approval still work without it, there is just no auto-publish.
func (c *Cfg) HasPipe() bool {
	return c.PipeWebhookURL != ""
}
