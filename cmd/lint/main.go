package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/tutorbridge-backend/internal/modules/authoring/compiler"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

// lintConfig is read from .contentlint.yml at the corpus root.
type lintConfig struct {
	Root             string   `yaml:"root"`
	Ignore           []string `yaml:"ignore"`
	WarningsAsErrors bool     `yaml:"warningsAsErrors"`
	Format           string   `yaml:"format"`
}

func main() {
	var (
		configPath = flag.String("config", ".contentlint.yml", "path to lint config")
		rootFlag   = flag.String("root", "", "corpus root directory (overrides config)")
		formatFlag = flag.String("format", "", "output format: text or json (overrides config)")
		strictFlag = flag.Bool("strict", false, "treat warnings as errors")
	)
	flag.Parse()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	cfg := loadConfig(log, *configPath)
	root := firstNonEmpty(*rootFlag, cfg.Root, flag.Arg(0), ".")
	format := firstNonEmpty(*formatFlag, cfg.Format, "text")
	strict := *strictFlag || cfg.WarningsAsErrors

	corpus, err := readCorpus(root, cfg.Ignore)
	if err != nil {
		log.Error("could not read corpus", "root", root, "error", err)
		os.Exit(2)
	}
	log.Debug("corpus loaded", "root", root, "files", len(corpus))

	result := compiler.Compile(corpus)

	var errCount, warnCount int
	for _, e := range result.Errors {
		if e.Severity == compiler.SeverityError {
			errCount++
		} else {
			warnCount++
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Error("could not encode result", "error", err)
			os.Exit(2)
		}
	default:
		for _, e := range result.Errors {
			fmt.Printf("%s:%d: %s: %s", e.File, e.Line, e.Severity, e.Message)
			if e.Suggestion != "" {
				fmt.Printf(" (did you mean %q?)", e.Suggestion)
			}
			fmt.Println()
		}
		fmt.Printf("%d entities, %d errors, %d warnings\n", len(result.Entities), errCount, warnCount)
	}

	if errCount > 0 || (strict && warnCount > 0) {
		os.Exit(1)
	}
}

func loadConfig(log *logger.Logger, path string) lintConfig {
	var cfg lintConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("could not read lint config", "path", path, "error", err)
		}
		return cfg
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		log.Warn("malformed lint config, using defaults", "path", path, "error", err)
		return lintConfig{}
	}
	return cfg
}

// readCorpus walks root and builds the virtual-path corpus map the compiler
// consumes. Paths are always '/'-separated and root-relative.
func readCorpus(root string, ignore []string) (map[string]string, error) {
	corpus := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(p, ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		virtual := filepath.ToSlash(rel)
		for _, pattern := range ignore {
			if ok, _ := filepath.Match(pattern, virtual); ok {
				return nil
			}
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		corpus[virtual] = string(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return corpus, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
