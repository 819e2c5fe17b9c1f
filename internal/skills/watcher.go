package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appErrors "resumate/internal/errors"
)

// VocabWatcher watches the vocabulary file and triggers reloads on change.
// Events are debounced so editors that write in several steps cause a
// single reload.
type VocabWatcher struct {
	mu sync.Mutex

	file          string
	lastModTime   time.Time
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(path string)
	logger   *appErrors.Logger

	running bool
}

// NewVocabWatcher creates a watcher for the vocabulary file. A zero
// debounce delay defaults to one second.
func NewVocabWatcher(file string, debounceDelay time.Duration, onReload func(path string), logger *appErrors.Logger) (*VocabWatcher, error) {
	if file == "" {
		return nil, fmt.Errorf("vocabulary file path is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &VocabWatcher{
		file:          file,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		onReload:      onReload,
		logger:        logger,
	}, nil
}

// Start begins watching the vocabulary file
func (vw *VocabWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.running {
		return fmt.Errorf("vocabulary watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	vw.fsWatcher = watcher

	if stat, err := os.Stat(vw.file); err == nil {
		vw.lastModTime = stat.ModTime()
	}

	// Watch the directory too so atomic writes (rename over the file)
	// are still observed.
	if err := watcher.Add(vw.file); err != nil {
		if closeErr := watcher.Close(); closeErr != nil && vw.logger != nil {
			vw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch vocabulary file %s: %w", vw.file, err)
	}
	if err := watcher.Add(filepath.Dir(vw.file)); err != nil && vw.logger != nil {
		vw.logger.Warn("Failed to watch vocabulary directory for atomic writes",
			"directory", filepath.Dir(vw.file), "error", err)
	}

	vw.running = true
	go vw.watchLoop()

	if vw.logger != nil {
		vw.logger.Info("Vocabulary file watcher started",
			"file", vw.file,
			"debounce_delay", vw.debounceDelay)
	}
	return nil
}

// Stop stops the watcher
func (vw *VocabWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if !vw.running {
		return nil
	}

	close(vw.stopChan)

	if vw.debounceTimer != nil {
		vw.debounceTimer.Stop()
	}

	if err := vw.fsWatcher.Close(); err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}

	vw.running = false

	if vw.logger != nil {
		vw.logger.Info("Vocabulary file watcher stopped")
	}
	return nil
}

// IsRunning reports whether the watcher is active
func (vw *VocabWatcher) IsRunning() bool {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	return vw.running
}

// watchLoop is the main event loop for file watching
func (vw *VocabWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-vw.fsWatcher.Events:
			if !ok {
				return
			}
			if vw.shouldProcessEvent(event) {
				vw.scheduleReload()
			}

		case err, ok := <-vw.fsWatcher.Errors:
			if !ok {
				return
			}
			if vw.logger != nil {
				vw.logger.LogError(err, "Vocabulary watcher error")
			}

		case <-vw.reloadChan:
			if vw.hasFileChanged() {
				if vw.logger != nil {
					vw.logger.Info("Vocabulary file changed, triggering reload", "file", vw.file)
				}
				vw.onReload(vw.file)
			}

		case <-vw.stopChan:
			return
		}
	}
}

// shouldProcessEvent filters events down to relevant changes of our file
func (vw *VocabWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != vw.file && filepath.Base(event.Name) != filepath.Base(vw.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged checks the modification time since the last reload
func (vw *VocabWatcher) hasFileChanged() bool {
	stat, err := os.Stat(vw.file)
	if err != nil {
		return false
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if stat.ModTime().After(vw.lastModTime) {
		vw.lastModTime = stat.ModTime()
		return true
	}
	return false
}

// scheduleReload schedules a debounced reload
func (vw *VocabWatcher) scheduleReload() {
	vw.mu.Lock()
	defer vw.mu.Unlock()

	if vw.debounceTimer != nil {
		vw.debounceTimer.Stop()
	}

	vw.debounceTimer = time.AfterFunc(vw.debounceDelay, func() {
		select {
		case vw.reloadChan <- struct{}{}:
		default:
			// Reload already scheduled
		}
	})
}
