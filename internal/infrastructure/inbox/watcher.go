// Package inbox importa los snapshots que se dejan en un directorio vigilado.
// Cada archivo *.json se importa una vez y se mueve a processed/ o failed/.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
)

const (
	processedDir = "processed"
	failedDir    = "failed"

	defaultSettle = 250 * time.Millisecond
)

// Importer importa un documento de snapshot.
type Importer interface {
	ImportData(ctx context.Context, raw []byte) (*dto.ImportReport, error)
}

// Watcher vigila dir y pasa cada snapshot nuevo al Importer.
type Watcher struct {
	dir      string
	importer Importer
	log      zerolog.Logger
	settle   time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewWatcher construye el watcher. No vigila nada hasta Start.
func NewWatcher(dir string, importer Importer, log zerolog.Logger) *Watcher {
	return &Watcher{
		dir:      filepath.Clean(dir),
		importer: importer,
		log:      log.With().Str("component", "inbox").Str("dir", dir).Logger(),
		settle:   defaultSettle,
	}
}

// SetSettle cambia la espera desde el último evento de un archivo hasta importarlo.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Start crea los directorios, importa los archivos que ya estén en la bandeja y empieza a vigilar.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("inbox: ya está en ejecución")
	}

	for _, d := range []string{w.dir, filepath.Join(w.dir, processedDir), filepath.Join(w.dir, failedDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("inbox: crear %s: %w", d, err)
		}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox: crear watcher: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return fmt.Errorf("inbox: vigilar %s: %w", w.dir, err)
	}

	w.watcher = fw
	w.done = make(chan struct{})
	w.running = true
	w.wg.Add(1)
	go w.loop(ctx, w.existing())
	w.log.Info().Msg("bandeja de importación activa")
	return nil
}

// Stop deja de vigilar y espera a que termine la importación en curso.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	if err != nil {
		return fmt.Errorf("inbox: cerrar watcher: %w", err)
	}
	return nil
}

func (w *Watcher) existing() []string {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Warn().Err(err).Msg("no se pudo listar la bandeja")
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && isSnapshotFile(e.Name()) {
			out = append(out, filepath.Join(w.dir, e.Name()))
		}
	}
	return out
}

// loop acumula eventos y procesa los archivos cuando pasa settle sin cambios.
func (w *Watcher) loop(ctx context.Context, initial []string) {
	defer w.wg.Done()

	pending := make(map[string]struct{})
	for _, p := range initial {
		pending[p] = struct{}{}
	}
	timer := time.NewTimer(w.settle)
	if len(pending) == 0 {
		timer.Stop()
	}
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if filepath.Dir(ev.Name) != w.dir || !isSnapshotFile(filepath.Base(ev.Name)) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.settle)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("error del watcher")

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				w.process(ctx, p)
			}
			clear(pending)
		}
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.log.Error().Err(err).Str("file", path).Msg("no se pudo leer el snapshot")
		}
		return
	}

	dest := processedDir
	report, err := w.importer.ImportData(ctx, raw)
	if err != nil {
		dest = failedDir
		w.log.Error().Err(err).Str("file", path).Msg("snapshot rechazado")
	} else {
		w.log.Info().Str("file", path).Int("failed", report.Failed()).Msg("snapshot importado desde la bandeja")
	}

	target := filepath.Join(w.dir, dest, time.Now().UTC().Format("20060102T150405")+"-"+filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		w.log.Error().Err(err).Str("file", path).Msg("no se pudo mover el snapshot")
	}
}

func isSnapshotFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".")
}
