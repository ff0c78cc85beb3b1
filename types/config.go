package types

// AppConfig represents the application configuration loaded from config file
type AppConfig struct {
	ServerURL            string `yaml:"serverURL"`            // processing server base URL, e.g. https://docs.example.com/api
	DetailsBaseURL       string `yaml:"detailsBaseURL"`       // web UI base used for zip details links and QR codes
	Port                 int    `yaml:"port"`                 // local console API port
	UploadTimeoutSeconds int    `yaml:"uploadTimeoutSeconds"` // per-archive upload timeout, 0 disables it
	UploadsPerSecond     int    `yaml:"uploadsPerSecond"`     // request pacing towards the server, 0 = unlimited
	CacheTTLSeconds      int    `yaml:"cacheTTLSeconds"`      // dashboard listing cache
	NotifyWebsocket      bool   `yaml:"notifyWebsocket"`
	NotifySocketPath     string `yaml:"notifySocketPath,omitempty"`
	SessionPath          string `yaml:"sessionPath,omitempty"`
}

// Config holds runtime overrides from CLI flags
type Config struct {
	Log            string
	UseConfigPath  string
	UseServer      string
	UsePort        int
	UseToken       string // stored into the session file on start
	UseUser        string // customer uuid stored alongside the token
	Upload         string // comma separated archives, one-shot run then exit
	Ping           bool   // probe the processing server host then exit
	SkipNotify     bool   // if true, skip unix socket notifications
	UseSessionPath string
}
