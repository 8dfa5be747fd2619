package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"tern/internal/runner"
)

// SettingsJSON merges [index].settings_json with the parallel-parsing switch
// into the document staged for the index builder. Keys given explicitly in
// the configuration win.
func (d *Deployment) SettingsJSON() (string, error) {
	settings := map[string]any{}
	if raw := d.cfg.Index.SettingsJSON; raw != "" {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return "", fmt.Errorf("parse index.settings_json: %w", err)
		}
	}
	if _, ok := settings["parallel-parsing"]; !ok {
		settings["parallel-parsing"] = d.cfg.Index.ParallelParsing
	}
	merged, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("encode settings: %w", err)
	}
	return string(merged), nil
}

// WriteSettings stages <name>.settings.json in dir and returns the file name.
func (d *Deployment) WriteSettings(dir string) (string, error) {
	settings, err := d.SettingsJSON()
	if err != nil {
		return "", err
	}
	name := d.cfg.SettingsFile()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(settings+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// IndexPipeline renders the shell pipeline that feeds the input files into
// the index builder and tees its output into the index log.
func (d *Deployment) IndexPipeline() string {
	index := d.cfg.Index

	var b strings.Builder
	b.WriteString(index.CatFiles)
	fmt.Fprintf(&b, " | %s -F %s -f -", d.cfg.Runtime.IndexBinary, index.Format)
	fmt.Fprintf(&b, " -i %s", d.cfg.Data.Name)
	fmt.Fprintf(&b, " -s %s", d.cfg.SettingsFile())
	if index.StxxlMemory != "" {
		fmt.Fprintf(&b, " -m %s", index.StxxlMemory)
	}
	if index.ParserBufferSize != "" {
		fmt.Fprintf(&b, " -b %s", index.ParserBufferSize)
	}
	fmt.Fprintf(&b, " | tee %s", d.cfg.IndexLogFile())
	return b.String()
}

// IndexInvocation wraps the pipeline for the configured runtime. Native runs
// raise the soft open-file limit first; index builds keep many partial files
// open at once.
func (d *Deployment) IndexInvocation(workDir string) runner.Invocation {
	pipeline := d.IndexPipeline()
	if d.cfg.ContainerSystem() {
		return d.indexContainerInvocation(workDir, pipeline)
	}
	return runner.Shell("ulimit -Sn 1048576; " + pipeline).InDir(workDir)
}

// FileInfo describes one on-disk artifact of the dataset.
type FileInfo struct {
	Name string
	Size int64
}

// IndexFiles lists the dataset's index artifacts in dir, sorted by name.
func (d *Deployment) IndexFiles(dir string) ([]FileInfo, error) {
	return globFiles(dir, []string{d.cfg.Data.Name + ".index.*"})
}

// InputFiles lists the files matching [index].input_files, sorted by name.
// The value may hold several whitespace-separated patterns.
func (d *Deployment) InputFiles(dir string) ([]FileInfo, error) {
	patterns := strings.Fields(d.cfg.Index.InputFiles)
	return globFiles(dir, patterns)
}

// TotalSize sums the sizes of the given files.
func TotalSize(files []FileInfo) int64 {
	var total int64
	for _, file := range files {
		total += file.Size
	}
	return total
}

func globFiles(dir string, patterns []string) ([]FileInfo, error) {
	seen := map[string]struct{}{}
	var files []FileInfo
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			files = append(files, FileInfo{Name: filepath.Base(match), Size: info.Size()})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// AcquireIndexLock takes the advisory per-directory index lock. The release
// function leaves the lock file in place; only the flock matters.
func (d *Deployment) AcquireIndexLock(dir string) (func(), error) {
	lock := flock.New(filepath.Join(dir, d.cfg.IndexLockFile()))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire index lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s is locked)", ErrIndexLocked, d.cfg.IndexLockFile())
	}
	return func() { _ = lock.Unlock() }, nil
}
