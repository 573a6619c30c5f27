package notify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// sentinelFile is the file rewritten on every publish. Other
// instances watch it for modification events.
const sentinelFile = "battlelog-events.json"

// sentinelMessage is the on-disk envelope for a published event.
type sentinelMessage struct {
	Origin string `json:"origin"` // Publisher instance id, used to skip self-delivery
	Event  Event  `json:"event"`
}

// Bus is the change-notification bus: an in-process dispatcher plus
// best-effort propagation to other running instances through a
// sentinel file in the data directory.
type Bus struct {
	*Dispatcher

	dataDir  string
	instance string
	watcher  *fsnotify.Watcher
}

// NewBus creates a bus rooted at the given data directory. Pass an
// empty dataDir for a purely in-process bus (no cross-instance
// propagation), which is what tests use.
func NewBus(dataDir string) *Bus {
	return &Bus{
		Dispatcher: NewDispatcher(),
		dataDir:    dataDir,
		instance:   newInstanceID(),
	}
}

// Publish dispatches an event to local observers and rewrites the
// sentinel file for other instances. Sentinel write failures are
// logged, not returned: cross-instance delivery is best-effort.
func (b *Bus) Publish(eventType string, payload any) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}

	b.Dispatch(event)

	if b.dataDir == "" {
		return
	}
	msg := sentinelMessage{Origin: b.instance, Event: event}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Bus] Failed to encode sentinel event: %v", err)
		return
	}
	path := filepath.Join(b.dataDir, sentinelFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[Bus] Failed to write sentinel file: %v", err)
	}
}

// Watch re-dispatches events published by other instances until the
// context is cancelled. Bursts are coalesced to roughly one dispatch
// per burstInterval, with one extra re-read after the burst goes
// quiet so the final sentinel content is always delivered.
// burstInterval also serves as the live-search debounce for
// watch-mode consumers.
func (b *Bus) Watch(ctx context.Context, burstInterval time.Duration) error {
	if b.dataDir == "" {
		return fmt.Errorf("bus has no data directory to watch")
	}
	if err := os.MkdirAll(b.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	b.watcher = watcher

	// Watch the directory rather than the file: editors and atomic
	// writers replace the file, which would drop a file-level watch.
	if err := watcher.Add(b.dataDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch data directory: %w", err)
	}

	if burstInterval <= 0 {
		burstInterval = 300 * time.Millisecond
	}
	limiter := rate.NewLimiter(rate.Every(burstInterval), 1)

	// trailing fires once after a burst goes quiet, so the last
	// sentinel write is always re-read even when the limiter dropped
	// its event.
	trailing := time.NewTimer(burstInterval)
	if !trailing.Stop() {
		<-trailing.C
	}
	defer trailing.Stop()

	for {
		select {
		case <-ctx.Done():
			return b.Close()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != sentinelFile {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if limiter.Allow() {
				b.deliverSentinel()
				continue
			}
			// Burst: defer one re-read to the end of the quiet
			// period.
			if !trailing.Stop() {
				select {
				case <-trailing.C:
				default:
				}
			}
			trailing.Reset(burstInterval)
		case <-trailing.C:
			b.deliverSentinel()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Bus] Watcher error: %v", err)
		}
	}
}

// deliverSentinel reads the sentinel file and dispatches its event
// unless this instance published it.
func (b *Bus) deliverSentinel() {
	path := filepath.Join(b.dataDir, sentinelFile)
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[Bus] Failed to read sentinel file: %v", err)
		return
	}
	var msg sentinelMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[Bus] Failed to decode sentinel event: %v", err)
		return
	}
	if msg.Origin == b.instance {
		return
	}
	b.Dispatch(msg.Event)
}

// Close stops the cross-instance watcher, if running.
func (b *Bus) Close() error {
	if b.watcher == nil {
		return nil
	}
	err := b.watcher.Close()
	b.watcher = nil
	return err
}

func newInstanceID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("pid-%d", os.Getpid())
	}
	return hex.EncodeToString(buf)
}
