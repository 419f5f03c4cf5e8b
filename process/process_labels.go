package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"labelcheck/pkg/ocr"
	"labelcheck/pkg/verify"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Batch label verifier: pairs every image in a directory with a sidecar
// "<image>.json" claims file, runs the full rotation+matching pipeline, and
// writes "<image>.result.json" next to it. With -watch it keeps running and
// picks up newly dropped files.

func main() {
	dir := flag.String("dir", ".", "directory of label images with <name>.json claim sidecars")
	watch := flag.Bool("watch", false, "keep watching the directory for new files")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent verification workers")
	reduced := flag.Bool("reduced", false, "use the reduced rotation set (0/90) to bound latency")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}

	angles := ocr.DefaultAngles
	if *reduced {
		angles = ocr.ReducedAngles
	}

	fileCh := make(chan string, 256)
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processOne(*dir, name, angles)
			}
		}()
	}

	for _, name := range listImageFiles(*dir) {
		fileCh <- name
	}

	if *watch {
		if err := watchDirectory(*dir, fileCh); err != nil {
			logrus.Fatalf("watch %s: %v", *dir, err)
		}
	}
	close(fileCh)
	wg.Wait()
}

func processOne(dir, name string, angles []int) {
	imagePath := filepath.Join(dir, name)
	claims, err := readClaims(imagePath)
	if err != nil {
		logrus.Warnf("%s: %v", name, err)
		return
	}
	imageBytes, err := os.ReadFile(imagePath)
	if err != nil {
		logrus.Warnf("%s: read: %v", name, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	engine, err := ocr.SharedEngine(ctx)
	if err != nil {
		logrus.Errorf("%s: engine: %v", name, err)
		return
	}
	merged, err := ocr.ProcessWithRotations(ctx, engine, imageBytes, ocr.Options{Angles: angles})
	if err != nil {
		logrus.Errorf("%s: ocr: %v", name, err)
		return
	}
	result := verify.Verify(claims, merged, verify.DefaultConfig())

	out, _ := json.MarshalIndent(result, "", "  ")
	resultPath := resultPathFor(imagePath)
	if err := os.WriteFile(resultPath, out, 0644); err != nil {
		logrus.Errorf("%s: write result: %v", name, err)
		return
	}
	logrus.Infof("%s: %s (primary angle %d)", name, result.OverallStatus, merged.PrimaryAngle)
}

// readClaims loads the "<image>.json" sidecar.
func readClaims(imagePath string) (verify.Claims, error) {
	var claims verify.Claims
	data, err := os.ReadFile(strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".json")
	if err != nil {
		return claims, err
	}
	if err := json.Unmarshal(data, &claims); err != nil {
		return claims, err
	}
	return claims, nil
}

func resultPathFor(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".result.json"
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		if _, err := os.Stat(resultPathFor(filepath.Join(dir, e.Name()))); err == nil {
			continue // already verified
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func watchDirectory(dir string, fileCh chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	logrus.Infof("watching %s (debounced) ...", dir)

	// simple debounce map of pending files so half-written images settle
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create || ev.Op&fsnotify.Write == fsnotify.Write {
				name := filepath.Base(ev.Name)
				if isSupportedExt(name) {
					pending[name] = time.Now()
				}
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					fileCh <- name
					delete(pending, name)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("watch error: %v", err)
		}
	}
}

func isSupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
