package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/moyoez/zipconsole/metrics"
	"github.com/moyoez/zipconsole/notify"
	"github.com/moyoez/zipconsole/share"
	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/transfer"
	"github.com/moyoez/zipconsole/types"
	"github.com/moyoez/zipconsole/upload"
)

var (
	consoleMu     sync.RWMutex
	controller    *upload.Controller
	client        *transfer.Client
	clientCfg     types.AppConfig
	uploadMetrics *metrics.UploadMetrics

	// DefaultSpoolFolder holds browser uploads until they are sent, one sub folder per accepted batch.
	DefaultSpoolFolder = filepath.Join(os.TempDir(), "zipconsole-spool")
	spoolMu            sync.Mutex
	activeBatch        string

	// held across a queue change and the spool bookkeeping that follows it
	queueMu sync.Mutex

	runWG sync.WaitGroup
)

// InitConsole builds the upload controller and the server client from cfg.
func InitConsole(cfg types.AppConfig, m *metrics.UploadMetrics) {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	uploadMetrics = m
	opts := upload.Options{
		Notify:      notify.Publish,
		ItemTimeout: tool.UploadTimeout(cfg),
	}
	if m != nil {
		opts.Recorder = m
	}
	controller = upload.NewController(opts)
	client = newClient(cfg)
	notify.SetSocketPath(cfg.NotifySocketPath)
}

// ApplyConfig propagates a config change to the client and the controller.
func ApplyConfig(cfg types.AppConfig) {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	// a new client would reset the breaker and the limiter
	if client == nil || cfg.ServerURL != clientCfg.ServerURL || cfg.UploadsPerSecond != clientCfg.UploadsPerSecond {
		client = newClient(cfg)
	}
	if controller != nil {
		controller.SetItemTimeout(tool.UploadTimeout(cfg))
	}
	notify.SetSocketPath(cfg.NotifySocketPath)
}

func newClient(cfg types.AppConfig) *transfer.Client {
	clientCfg = cfg
	return transfer.NewClient(transfer.Options{
		BaseURL:          cfg.ServerURL,
		Token:            share.AccessToken,
		UploadsPerSecond: cfg.UploadsPerSecond,
	})
}

func GetController() *upload.Controller {
	consoleMu.RLock()
	defer consoleMu.RUnlock()
	return controller
}

func GetClient() *transfer.Client {
	consoleMu.RLock()
	defer consoleMu.RUnlock()
	return client
}

func GetMetrics() *metrics.UploadMetrics {
	consoleMu.RLock()
	defer consoleMu.RUnlock()
	return uploadMetrics
}

// RunQueue drains the queue against the processing server and publishes the aggregate report.
// ErrNoFiles and ErrAlreadyRunning are returned unchanged with an empty report.
func RunQueue(ctx context.Context) (types.RunReport, error) {
	ctrl := GetController()
	if ctrl == nil {
		return types.RunReport{}, fmt.Errorf("console is not initialized")
	}
	outcomes, err := ctrl.Start(ctx, func(ctx context.Context, item types.QueueItem) (any, error) {
		// resolved per item so a config change applies to the next archive
		return GetClient().UploadZipFile(ctx, item)
	})
	if err != nil {
		return types.RunReport{}, err
	}

	report := upload.AggregateReport(outcomes)
	n := upload.ReportNotification(ctrl.Snapshot().RunID, report)
	n.Data["outcomes"] = report.Outcomes
	notify.Publish(n)
	share.InvalidateListings()
	if report.Failed > 0 {
		tool.DefaultLogger.Warnf("[Upload] %s", report.Message)
	} else {
		tool.DefaultLogger.Infof("[Upload] %s", report.Message)
	}
	return report, nil
}

// StartRunAsync runs RunQueue in the background. WaitRuns blocks until it returns.
func StartRunAsync() {
	runWG.Add(1)
	go func() {
		defer runWG.Done()
		if _, err := RunQueue(context.Background()); err != nil && !IsRunBusy(err) && !errors.Is(err, upload.ErrNoFiles) {
			tool.DefaultLogger.Errorf("[Upload] Run failed to start: %v", err)
		}
	}()
}

// WaitRuns blocks until every run started by StartRunAsync has finished.
func WaitRuns() {
	runWG.Wait()
}

// IsRunBusy reports whether err only means a run is already in progress.
func IsRunBusy(err error) bool {
	return errors.Is(err, upload.ErrAlreadyRunning)
}

// ReplaceQueue validates candidates into the queue. batchDir, the spool folder the
// candidates were copied to ("" for local paths), is kept only when it now backs the
// queue. Queue replacement and spool bookkeeping happen under one lock, so the live
// queue always points at the active batch.
func ReplaceQueue(source types.InputSource, candidates []types.Candidate, batchDir string) (types.Rejection, error) {
	queueMu.Lock()
	defer queueMu.Unlock()
	ctrl := GetController()
	if ctrl == nil {
		DiscardSpoolBatch(batchDir)
		return types.Rejection{}, fmt.Errorf("console is not initialized")
	}
	rejection, err := ctrl.ValidateAndSetQueue(source, candidates)
	if err != nil || rejection.Accepted == 0 {
		DiscardSpoolBatch(batchDir)
		return rejection, err
	}
	CommitSpoolBatch(batchDir)
	return rejection, nil
}

// ResetQueue clears the queue and removes the batch that backed it.
func ResetQueue() error {
	queueMu.Lock()
	defer queueMu.Unlock()
	ctrl := GetController()
	if ctrl == nil {
		return fmt.Errorf("console is not initialized")
	}
	if err := ctrl.Reset(); err != nil {
		return err
	}
	spoolMu.Lock()
	defer spoolMu.Unlock()
	if activeBatch != "" {
		removeBatchLocked(activeBatch)
		activeBatch = ""
	}
	return nil
}

// NewSpoolBatch creates a fresh folder for one selection or drop.
func NewSpoolBatch() (string, error) {
	if err := os.MkdirAll(DefaultSpoolFolder, 0o755); err != nil {
		return "", fmt.Errorf("failed to create spool folder: %v", err)
	}
	dir, err := os.MkdirTemp(DefaultSpoolFolder, "batch-")
	if err != nil {
		return "", fmt.Errorf("failed to create spool batch: %v", err)
	}
	return dir, nil
}

// CommitSpoolBatch marks dir as backing the current queue and removes the batch
// that backed the previous one. Batches still being filled are left alone.
func CommitSpoolBatch(dir string) {
	spoolMu.Lock()
	defer spoolMu.Unlock()
	if activeBatch != "" && activeBatch != dir {
		removeBatchLocked(activeBatch)
	}
	activeBatch = dir
}

// DiscardSpoolBatch removes a batch that did not replace the queue.
func DiscardSpoolBatch(dir string) {
	if dir == "" {
		return
	}
	spoolMu.Lock()
	defer spoolMu.Unlock()
	if dir == activeBatch {
		return
	}
	removeBatchLocked(dir)
}

// ClearSpool removes every spooled archive, used on shutdown.
func ClearSpool() {
	spoolMu.Lock()
	defer spoolMu.Unlock()
	activeBatch = ""
	if err := os.RemoveAll(DefaultSpoolFolder); err != nil {
		tool.DefaultLogger.Warnf("[Spool] Failed to clear %s: %v", DefaultSpoolFolder, err)
	}
}

func removeBatchLocked(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		tool.DefaultLogger.Warnf("[Spool] Failed to remove %s: %v", dir, err)
	}
}
