package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCascadeDecision(t *testing.T) {
	tests := []struct {
		name       string
		cascade    bool
		keepRows   bool
		linked     int
		input      string
		want       bool
		wantErr    bool
		wantPrompt bool
	}{
		{name: "cascade flag", cascade: true, linked: 2, want: true},
		{name: "keep rows flag", keepRows: true, linked: 2, want: false},
		{name: "both flags", cascade: true, keepRows: true, wantErr: true},
		{name: "nothing linked", linked: 0, want: false},
		{name: "answer yes", linked: 1, input: "y\n", want: true, wantPrompt: true},
		{name: "answer YES without newline", linked: 1, input: "YES", want: true, wantPrompt: true},
		{name: "answer no", linked: 3, input: "n\n", want: false, wantPrompt: true},
		{name: "empty answer", linked: 3, input: "\n", want: false, wantPrompt: true},
		{name: "closed input", linked: 3, input: "", want: false, wantPrompt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := cascadeDecision(tt.cascade, tt.keepRows, tt.linked, strings.NewReader(tt.input), &out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("cascadeDecision() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cascadeDecision() = %v, want %v", got, tt.want)
			}
			prompted := strings.Contains(out.String(), "[y/N]")
			if prompted != tt.wantPrompt {
				t.Errorf("prompted = %v, want %v (output %q)", prompted, tt.wantPrompt, out.String())
			}
		})
	}
}

func newThresholdFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "thresholds"}
	cmd.Flags().Float64("low", 0, "")
	cmd.Flags().Float64("medium", 0, "")
	cmd.Flags().Float64("high", 0, "")
	return cmd
}

func TestChangedFloat_OnlyGivenFlags(t *testing.T) {
	cmd := newThresholdFlagsCmd()
	if err := cmd.ParseFlags([]string{"--medium", "15"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if v := changedFloat(cmd, "low"); v != nil {
		t.Errorf("expected low to be unset, got %v", *v)
	}
	if v := changedFloat(cmd, "high"); v != nil {
		t.Errorf("expected high to be unset, got %v", *v)
	}
	v := changedFloat(cmd, "medium")
	if v == nil || *v != 15 {
		t.Fatalf("expected medium 15, got %v", v)
	}
}

func TestChangedFloat_ExplicitZero(t *testing.T) {
	cmd := newThresholdFlagsCmd()
	if err := cmd.ParseFlags([]string{"--low", "0"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	v := changedFloat(cmd, "low")
	if v == nil || *v != 0 {
		t.Fatalf("expected explicit low 0, got %v", v)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")

	if err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "ID\nROW-001\n")
		return err
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "ID\nROW-001\n" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestWriteFileAtomic_FailureKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte("previous export\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	writeErr := errors.New("document not found")
	err := writeFileAtomic(path, func(w io.Writer) error {
		fmt.Fprint(w, "ID,Dan")
		return writeErr
	})
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "previous export\n" {
		t.Errorf("existing file was modified: %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected temp file to be removed, found %d entries", len(entries))
	}
}
