package uploader

import (
	"context"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/craftops/plugsync/internal/archive"
	"github.com/craftops/plugsync/internal/config"
	"github.com/craftops/plugsync/internal/history"
	"github.com/craftops/plugsync/internal/notify"
	"github.com/craftops/plugsync/internal/transport"
)

// Orchestrator runs the package-and-send cycle: build the archive in the
// system temp directory, hand it to the transport, delete the scratch file,
// record the outcome. Nothing in a cycle propagates to the caller; a failed
// upload is logged and the agent keeps accepting triggers.
type Orchestrator struct {
	cfg       *config.Config
	transport transport.Uploader
	history   *history.Store
	notifier  *notify.Notifier
}

// New wires an orchestrator. transport may be nil when the configured
// method resolved to nothing: cycles then archive, log an error, and clean
// up without transferring. history and notifier may also be nil.
func New(cfg *config.Config, tr transport.Uploader, hist *history.Store, n *notify.Notifier) *Orchestrator {
	return &Orchestrator{cfg: cfg, transport: tr, history: hist, notifier: n}
}

// Run performs one full cycle. The scratch path is the configured archive
// name under os.TempDir; two concurrent Runs in separate processes share it
// and may collide. Callers needing exclusion must serialize invocations.
func (o *Orchestrator) Run(ctx context.Context) {
	start := time.Now()
	scratch := filepath.Join(os.TempDir(), o.cfg.PluginName)

	if err := archive.Build(o.cfg.PluginDir, scratch); err != nil {
		log.Errorf("Packaging failed: %v", err)
		o.record(ctx, start, history.StatusFailed, err.Error())
		return
	}

	status := history.StatusUploaded
	detail := ""

	if o.transport == nil {
		log.Errorf("Invalid upload method %q: use %q or %q", o.cfg.UploadMethod, config.MethodFTP, config.MethodSFTP)
		status = history.StatusSkipped
		detail = "no transport for method " + o.cfg.UploadMethod
	} else if err := o.transport.Upload(ctx, scratch); err != nil {
		log.Errorf("Upload over %s failed: %v", o.transport.Method(), err)
		status = history.StatusFailed
		detail = err.Error()
	} else {
		log.Infof("Plugin uploaded over %s to %s", o.transport.Method(), o.cfg.ServerPluginDir)
	}

	if err := os.Remove(scratch); err != nil {
		log.Warnf("Failed to remove scratch archive %s: %v", scratch, err)
	}

	o.record(ctx, start, status, detail)
	log.Info("Plugin reloaded")
}

func (o *Orchestrator) record(ctx context.Context, start time.Time, status, detail string) {
	elapsed := time.Since(start)

	if o.history != nil {
		o.history.Record(history.Entry{
			Plugin:   o.cfg.PluginName,
			Method:   o.cfg.UploadMethod,
			Status:   status,
			Detail:   detail,
			Duration: elapsed,
		})
	}

	o.notifier.Send(ctx, notify.Event{
		Plugin:     o.cfg.PluginName,
		Method:     o.cfg.UploadMethod,
		Status:     status,
		Detail:     detail,
		DurationMS: elapsed.Milliseconds(),
	})
}
