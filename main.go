package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/moyoez/zipconsole/api"
	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/api/notifyhub"
	"github.com/moyoez/zipconsole/metrics"
	"github.com/moyoez/zipconsole/notify"
	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
	"github.com/moyoez/zipconsole/upload"
)

func main() {
	cfg := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.ApplyLogMode(cfg.Log)

	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	tool.ApplyFlagOverrides(&appCfg, cfg)

	if cfg.SkipNotify {
		notify.SetUseNotify(false)
	}

	if err := share.LoadSession(tool.ResolveSessionPath(appCfg)); err != nil {
		tool.DefaultLogger.Warnf("[Session] %v", err)
	}
	if cfg.UseToken != "" || cfg.UseUser != "" {
		session := share.GetSession()
		if cfg.UseToken != "" {
			session.AccessToken = cfg.UseToken
		}
		if cfg.UseUser != "" {
			session.CustomerUUID = cfg.UseUser
		}
		if err := share.SetSession(session); err != nil {
			tool.DefaultLogger.Fatalf("%v", err)
		}
	}
	share.SetListingTTL(tool.ListingTTL(appCfg))

	uploadMetrics := metrics.NewUploadMetrics("zipconsole")
	models.InitConsole(appCfg, uploadMetrics)

	switch {
	case cfg.Ping:
		os.Exit(runPing(appCfg))
	case cfg.Upload != "":
		os.Exit(runUpload(cfg.Upload))
	}

	if appCfg.NotifyWebsocket {
		models.SetNotifyHub(notifyhub.New())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiServer := api.NewServer(appCfg.Port)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	<-ctx.Done()
	tool.DefaultLogger.Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		tool.DefaultLogger.Errorf("Shutdown: %v", err)
	}
	models.ClearSpool()
}

func runPing(appCfg types.AppConfig) int {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	res, err := tool.PingServer(ctx, appCfg.ServerURL, 3)
	if err != nil {
		tool.DefaultLogger.Errorf("[Ping] %v", err)
		return 1
	}
	tool.DefaultLogger.Infof("[Ping] %s (%s): %d/%d received, %.0f%% loss, avg %v",
		res.Host, res.Addr, res.Received, res.Sent, res.PacketLoss, res.AvgRtt)
	if res.Received == 0 {
		return 1
	}
	return 0
}

// runUpload queues the comma separated archives and uploads them one by one.
// The exit code is 1 when nothing could be queued or any archive failed.
func runUpload(list string) int {
	if !share.GetSession().Authorized() {
		tool.DefaultLogger.Warnf("[Upload] No access token stored, the server will likely reject the upload")
	}
	var candidates []types.Candidate
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			candidates = append(candidates, upload.PathCandidate(p))
		}
	}

	rejection, err := models.ReplaceQueue(types.InputSourcePaths, candidates, "")
	if err != nil {
		tool.DefaultLogger.Errorf("[Upload] %v", err)
		return 1
	}
	if notice := upload.RejectionNotice(rejection.Rejected); notice != "" {
		tool.DefaultLogger.Warnf("[Upload] %s", notice)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	report, err := models.RunQueue(ctx)
	if err != nil {
		if errors.Is(err, upload.ErrNoFiles) {
			tool.DefaultLogger.Errorf("[Upload] Please select .zip files to upload")
		} else {
			tool.DefaultLogger.Errorf("[Upload] %v", err)
		}
		return 1
	}
	for _, o := range report.Outcomes {
		if o.Status == types.OutcomeFailed {
			tool.DefaultLogger.Errorf("  %s: %s", o.FileName, o.Error.Summary())
		} else {
			tool.DefaultLogger.Infof("  %s: uploaded", o.FileName)
		}
	}
	if report.Failed > 0 {
		return 1
	}
	return 0
}
