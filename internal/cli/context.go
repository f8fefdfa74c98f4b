// Package cli defines the riskmap cobra commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/config"
	"github.com/example/riskmap/internal/wire"
)

// Setup is the root PersistentPreRunE: it reads the local config and
// configures logging and the database before any service is built.
func Setup(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return err
	}

	wire.Configure(verbose, cfg.Database)
	return nil
}

// documentPath resolves the assessment a command works on.
func documentPath(cmd *cobra.Command) (string, error) {
	flag, _ := cmd.Flags().GetString("file")

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return "", err
	}

	path := config.ResolveDocument(cwd, flag, cfg)
	if path == "" {
		return "", fmt.Errorf("no assessment selected: run 'riskmap new <path>', 'riskmap open <path>' or pass --file")
	}
	return path, nil
}

// rememberDocument makes path the current assessment for later commands.
func rememberDocument(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return err
	}
	cfg.Document = path
	return config.SaveConfig(cwd, cfg)
}

// cascadeDecision turns the marker delete flags into a cascade choice,
// asking on in/out only when the flags leave it open and rows are linked.
func cascadeDecision(cascade, keepRows bool, linked int, in io.Reader, out io.Writer) (bool, error) {
	switch {
	case cascade && keepRows:
		return false, fmt.Errorf("--cascade and --keep-rows are mutually exclusive")
	case cascade:
		return true, nil
	case keepRows || linked == 0:
		return false, nil
	}

	fmt.Fprintf(out, "%d row(s) are linked to this marker. Delete them too? [y/N] ", linked)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// changedFloat returns the flag value only when it was given on the command line.
func changedFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		return nil
	}
	return &v
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place, so a failed write leaves any existing file intact.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
