package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/llm/prompt"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

const promptReadme = `# Prompts

Customisable prompts used by sercha-learn's LLM features.

- refine_topic.txt: makes a learning topic more specific before searching.
  The answer is read after the last "Refined topic:" marker.
- summarise.txt: summarises text extracted from papers.

Each prompt must keep exactly one %s placeholder: the topic for
refine_topic.txt and the paper text for summarise.txt. A prompt without a
placeholder is ignored in favour of the built-in default.

Edits take effect on the next command or after restarting the server.
`

// PromptStore serves LLM prompt templates from <dir>/<name>.txt, seeding
// the directory with the built-in defaults on first use. A prompt whose
// file is missing or unreadable falls back to its default.
type PromptStore struct {
	dir      string
	defaults map[string]string

	mu     sync.Mutex
	seeded bool
	cache  map[string]string
}

// NewPromptStore creates a prompt store rooted at dir
// (default ~/.sercha-learn/prompts). No I/O happens until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, AppDirName, "prompts")
	}
	return &PromptStore{
		dir:      dir,
		defaults: prompt.Defaults(),
		cache:    make(map[string]string),
	}, nil
}

// Load returns the template for name. Results are cached until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text, ok := s.cache[name]; ok {
		return text, nil
	}
	if !s.seeded {
		s.seeded = true
		if err := s.seed(); err != nil {
			return s.fallback(name, err)
		}
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return s.fallback(name, err)
	}
	text := strings.TrimSpace(string(data))
	s.cache[name] = text
	return text, nil
}

// Reload drops cached templates so the next Load reads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) fallback(name string, cause error) (string, error) {
	if text, ok := s.defaults[name]; ok {
		return text, nil
	}
	return "", fmt.Errorf("load prompt %q: %w", name, cause)
}

// seed creates the directory, any missing default prompt and the README.
// Existing files are never overwritten.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	files := map[string]string{filepath.Join(s.dir, "README.md"): promptReadme}
	for name, text := range s.defaults {
		files[s.path(name)] = text
	}
	for path, content := range files {
		if err := writeIfMissing(path, content); err != nil {
			return err
		}
	}
	return nil
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
