package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid: %q", name, port)
	}

	return nil
}

// ValidateDir validates a configured directory path
func ValidateDir(dir string, name string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("%s directory is required", name)
	}
	return nil
}

// ValidateOutputName validates the generated document's file name
func ValidateOutputName(name string) error {
	if name == "" {
		return fmt.Errorf("output name is required")
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("output name must not contain directories: %q", name)
	}
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return fmt.Errorf("output name must end in .pdf: %q", name)
	}
	return nil
}

// ValidateScratchDir rejects scratch roots whose removal would take other data
// with it: the working directory or one of its parents, and any directory that
// is or contains the output directory.
func ValidateScratchDir(scratch, output string) error {
	scratchAbs, err := filepath.Abs(scratch)
	if err != nil {
		return fmt.Errorf("scratch directory %q: %w", scratch, err)
	}
	outputAbs, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("output directory %q: %w", output, err)
	}

	if filepath.Dir(scratchAbs) == scratchAbs {
		return fmt.Errorf("scratch directory must not be a filesystem root: %q", scratch)
	}
	if cwd, err := os.Getwd(); err == nil && within(scratchAbs, cwd) {
		return fmt.Errorf("scratch directory must not be the working directory or one of its parents: %q", scratch)
	}
	if within(scratchAbs, outputAbs) {
		return fmt.Errorf("output directory %q must not be inside scratch directory %q: scratch is removed after every run", output, scratch)
	}
	return nil
}

// ValidateFontPath checks that a configured font file exists
func ValidateFontPath(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("font file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("font file %q is a directory", path)
	}
	return nil
}

// within reports whether path is dir itself or lies below it
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
