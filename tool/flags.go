package tool

import (
	"flag"

	"github.com/moyoez/zipconsole/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseServer, "useServer", "", "override processing server base URL")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override local console API port")
	flag.StringVar(&cfg.UseToken, "useToken", "", "store this access token in the session file")
	flag.StringVar(&cfg.UseUser, "useUser", "", "store this customer uuid in the session file")
	flag.StringVar(&cfg.UseSessionPath, "useSessionPath", "", "override session file path")
	flag.StringVar(&cfg.Upload, "upload", "", "comma separated .zip files to upload one by one, then exit")
	flag.BoolVar(&cfg.Ping, "ping", false, "ping the processing server host, then exit")
	flag.BoolVar(&cfg.SkipNotify, "skipNotify", false, "if true, do not forward notifications to the unix socket")
	flag.Parse()
	return cfg
}
