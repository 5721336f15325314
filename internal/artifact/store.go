package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store resolves and manages the on-disk artifacts for a single item name.
// Intermediate artifacts (summary, prompt, raw image) live in the artifacts
// directory; finished icons live in the icons directory.
type Store struct {
	dir      string
	iconsDir string
}

// NewStore creates a store rooted at the given artifact and icon directories,
// creating both if needed. External tools write raw images and icons straight
// to the resolved paths, so the directories must exist before any pipeline
// run. Creation failures surface on the first write.
func NewStore(artifactsDir, iconsDir string) *Store {
	_ = os.MkdirAll(artifactsDir, 0o755)
	_ = os.MkdirAll(iconsDir, 0o755)
	return &Store{dir: artifactsDir, iconsDir: iconsDir}
}

// ArtifactsDir returns the directory holding intermediate artifacts.
func (s *Store) ArtifactsDir() string { return s.dir }

// IconsDir returns the directory holding finished icons.
func (s *Store) IconsDir() string { return s.iconsDir }

// SummaryPath returns the path of the item's summary text artifact.
func (s *Store) SummaryPath(name string) string {
	return filepath.Join(s.dir, sanitize(name)+"_summary.txt")
}

// PromptPath returns the path of the item's icon prompt artifact.
func (s *Store) PromptPath(name string) string {
	return filepath.Join(s.dir, sanitize(name)+"_icon_prompt.txt")
}

// ImagePath returns the path of the item's intermediate raw image.
func (s *Store) ImagePath(name string) string {
	return filepath.Join(s.dir, sanitize(name)+".jpg")
}

// IconPath returns the path of the item's finished transparent icon.
func (s *Store) IconPath(name string) string {
	return filepath.Join(s.iconsDir, sanitize(name)+".png")
}

// HasSummary reports whether the summary artifact exists.
func (s *Store) HasSummary(name string) bool { return exists(s.SummaryPath(name)) }

// HasPrompt reports whether the prompt artifact exists.
func (s *Store) HasPrompt(name string) bool { return exists(s.PromptPath(name)) }

// HasImage reports whether the intermediate image exists.
func (s *Store) HasImage(name string) bool { return exists(s.ImagePath(name)) }

// HasIcon reports whether the finished icon exists.
func (s *Store) HasIcon(name string) bool { return exists(s.IconPath(name)) }

// LoadSummary reads the item's summary artifact.
func (s *Store) LoadSummary(name string) (string, error) {
	return readText(s.SummaryPath(name))
}

// SaveSummary writes the item's summary artifact.
func (s *Store) SaveSummary(name, text string) error {
	return writeText(s.SummaryPath(name), text)
}

// LoadPrompt reads the item's prompt artifact.
func (s *Store) LoadPrompt(name string) (string, error) {
	return readText(s.PromptPath(name))
}

// SavePrompt writes the item's prompt artifact.
func (s *Store) SavePrompt(name, text string) error {
	return writeText(s.PromptPath(name), text)
}

// NeedsWork reports whether any stage of the item's artifact chain is missing
// or out of date with respect to its upstream artifact.
func (s *Store) NeedsWork(name string) bool {
	summary := s.SummaryPath(name)
	prompt := s.PromptPath(name)
	image := s.ImagePath(name)
	icon := s.IconPath(name)
	if !exists(summary) {
		return true
	}
	if IsStale(summary, prompt) {
		return true
	}
	if IsStale(prompt, image) {
		return true
	}
	if IsStale(image, icon) {
		return true
	}
	return false
}

// IsStale reports whether the consumer artifact must be rebuilt from the
// producer. A missing consumer is always stale. A missing producer never
// invalidates an existing consumer. Otherwise the consumer is stale only
// when the producer's modification time is strictly newer.
func IsStale(producer, consumer string) bool {
	cInfo, err := os.Stat(consumer)
	if err != nil {
		return true
	}
	pInfo, err := os.Stat(producer)
	if err != nil {
		return false
	}
	return pInfo.ModTime().After(cInfo.ModTime())
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read artifact %s: %w", filepath.Base(path), err)
	}
	return string(data), nil
}

func writeText(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure artifact directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}

// sanitize keeps item-derived file names inside the artifact directories.
func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", string(filepath.Separator), "_", "..", "_")
	return replacer.Replace(name)
}
