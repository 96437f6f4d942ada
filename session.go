package reveal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/config"
	"github.com/mouse-blink/reveal/internal/domain"
	"github.com/mouse-blink/reveal/internal/resolve"
)

// Checker ids accepted by WithoutChecker and the reveal.toml sections.
const (
	CheckerRevealer = "revealer"
	CheckerGotype   = "gotype"
)

// Session owns the checker adapters and the name registrations for one test
// run. Construct it with NewSession, run the checkers once, then Install it.
type Session struct {
	inner *domain.Session
	files []string
}

type settings struct {
	root           string
	dir            string
	files          []string
	exclude        []string
	configPath     string
	runner         adapter.CommandRunner
	disabled       map[string]bool
	revealerConfig string
	revealerNoCfg  bool
	gotypeConfig   string
}

// Option configures a Session.
type Option func(*settings)

// WithDir sets the package directory whose test files are checked.
// Defaults to the current directory.
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = dir }
}

// WithFiles bypasses test-file discovery with an explicit file list.
func WithFiles(files ...string) Option {
	return func(s *settings) { s.files = append(s.files, files...) }
}

// WithExclude skips discovered test files matching the given regular
// expressions.
func WithExclude(patterns ...string) Option {
	return func(s *settings) { s.exclude = append(s.exclude, patterns...) }
}

// WithProjectRoot sets the root against which relative checker config paths
// resolve. Defaults to the current directory.
func WithProjectRoot(root string) Option {
	return func(s *settings) { s.root = root }
}

// WithConfigFile points at a reveal.toml. By default the project root is
// probed for one.
func WithConfigFile(path string) Option {
	return func(s *settings) { s.configPath = path }
}

// WithoutChecker disables one named checker entirely.
func WithoutChecker(id string) Option {
	return func(s *settings) { s.disabled[id] = true }
}

// WithRevealerConfig points the revealer tool at a config file, relative to
// the project root.
func WithRevealerConfig(path string) Option {
	return func(s *settings) { s.revealerConfig = path }
}

// WithRevealerNoConfig runs the revealer tool without any config file,
// suppressing its default discovery.
func WithRevealerNoConfig() Option {
	return func(s *settings) { s.revealerNoCfg = true }
}

// WithGotypeConfig points the gotype tool at a project config file,
// relative to the project root.
func WithGotypeConfig(path string) Option {
	return func(s *settings) { s.gotypeConfig = path }
}

// WithRunner substitutes the subprocess runner. Intended for tests.
func WithRunner(r adapter.CommandRunner) Option {
	return func(s *settings) { s.runner = r }
}

// NewSession resolves options and configuration into a wired Session. The
// adapter order is fixed: gotype verifies first, then revealer.
func NewSession(opts ...Option) (*Session, error) {
	st := &settings{
		root:     ".",
		dir:      ".",
		runner:   adapter.NewExecRunner(),
		disabled: map[string]bool{},
	}

	for _, opt := range opts {
		opt(st)
	}

	cfgPath := st.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(st.root, config.DefaultFile)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if err := applyConfig(st, cfg); err != nil {
		return nil, err
	}

	adapters, err := buildAdapters(st)
	if err != nil {
		return nil, err
	}

	return &Session{
		inner: domain.NewSession(adapters, resolve.NewScope()),
		files: st.files,
	}, nil
}

func applyConfig(st *settings, cfg *config.Config) error {
	for id, section := range cfg.Checkers {
		if id != CheckerRevealer && id != CheckerGotype {
			return fmt.Errorf("unknown checker %q in config", id)
		}

		if section.Disable {
			st.disabled[id] = true
		}

		if !cfg.ExplicitConfig(id) {
			continue
		}

		switch id {
		case CheckerRevealer:
			if section.Config == "" {
				st.revealerNoCfg = true
			} else if st.revealerConfig == "" {
				st.revealerConfig = section.Config
			}
		case CheckerGotype:
			if st.gotypeConfig == "" {
				st.gotypeConfig = section.Config
			}
		}
	}

	return nil
}

func buildAdapters(st *settings) ([]adapter.Adapter, error) {
	var adapters []adapter.Adapter

	if !st.disabled[CheckerGotype] {
		var opts []adapter.GotypeOption

		if st.gotypeConfig != "" {
			resolved, err := config.ResolvePath(st.root, st.gotypeConfig)
			if err != nil {
				return nil, err
			}

			opts = append(opts, adapter.WithGotypeConfig(resolved))
		}

		adapters = append(adapters, adapter.NewGotype(st.runner, opts...))
	}

	if !st.disabled[CheckerRevealer] {
		var opts []adapter.RevealerOption

		switch {
		case st.revealerNoCfg:
			opts = append(opts, adapter.WithRevealerNoConfig())
		case st.revealerConfig != "":
			resolved, err := config.ResolvePath(st.root, st.revealerConfig)
			if err != nil {
				return nil, err
			}

			opts = append(opts, adapter.WithRevealerConfig(resolved))
		}

		adapters = append(adapters, adapter.NewRevealer(st.runner, opts...))
	}

	if len(adapters) == 0 {
		return nil, fmt.Errorf("all checkers are disabled")
	}

	// Discovery happens here so a missing directory surfaces at session
	// construction, not at checker time.
	if len(st.files) == 0 {
		files, err := domain.DiscoverTestFiles(st.dir, st.exclude)
		if err != nil {
			return nil, err
		}

		st.files = files
	}

	return adapters, nil
}

// RunCheckers invokes every enabled checker once over the session's test
// files, sequentially and in verification order. Must complete before any
// reveal.Type call is verified.
func (s *Session) RunCheckers(ctx context.Context) error {
	return s.inner.RunCheckers(ctx, s.files)
}

// Main is the TestMain entry point: it builds a session, runs the checkers
// over the package's test files, installs the session and runs the tests.
// A checker failure aborts with a nonzero exit before any test body runs.
func Main(m *testing.M, opts ...Option) int {
	s, err := NewSession(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reveal:", err)
		return 1
	}

	if err := s.RunCheckers(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "reveal:", err)
		return 1
	}

	restore := Install(s)
	defer restore()

	return m.Run()
}
