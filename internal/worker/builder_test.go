package worker

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestBuildCommandArgs(t *testing.T) {
	b := &Builder{ConfigPath: "config/app.yaml", Verbose: true}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	cmd, err := b.BuildCommand(context.Background(), 8501, w)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}

	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable: %v", err)
	}
	if cmd.Path != exe {
		t.Errorf("Path = %q, want %q (re-exec self)", cmd.Path, exe)
	}

	want := []string{exe, SubcommandServeUI, "-port", "8501", "-config", "config/app.yaml", "-v"}
	if len(cmd.Args) != len(want) {
		t.Fatalf("Args = %v, want %v", cmd.Args, want)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Errorf("Args[%d] = %q, want %q", i, cmd.Args[i], want[i])
		}
	}
}

func TestBuildCommandOmitsOptionalFlags(t *testing.T) {
	b := &Builder{}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	cmd, err := b.BuildCommand(context.Background(), 9000, w)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}

	for _, arg := range cmd.Args {
		if arg == "-config" || arg == "-v" {
			t.Errorf("unexpected flag %q in %v", arg, cmd.Args)
		}
	}
}

func TestBuildCommandWiresErrorChannel(t *testing.T) {
	b := &Builder{}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	cmd, err := b.BuildCommand(context.Background(), 9000, w)
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}

	if len(cmd.ExtraFiles) != 1 || cmd.ExtraFiles[0] != w {
		t.Errorf("ExtraFiles = %v, want the error pipe as fd 3", cmd.ExtraFiles)
	}

	found := false
	for _, env := range cmd.Env {
		if env == errorFDEnv+"=3" {
			found = true
		}
	}
	if !found {
		t.Errorf("env %s=3 not set", errorFDEnv)
	}
}

func TestBuilderName(t *testing.T) {
	b := &Builder{}
	if !strings.Contains(b.Name(), "ui") {
		t.Errorf("Name = %q", b.Name())
	}
}

func TestOpenErrorChannelStandalone(t *testing.T) {
	t.Setenv(errorFDEnv, "")
	if f := openErrorChannel(); f != nil {
		f.Close()
		t.Error("expected nil error channel without env")
	}

	t.Setenv(errorFDEnv, "not-a-number")
	if f := openErrorChannel(); f != nil {
		f.Close()
		t.Error("expected nil error channel for malformed env")
	}

	t.Setenv(errorFDEnv, "1")
	if f := openErrorChannel(); f != nil {
		f.Close()
		t.Error("expected nil error channel for fd below 3")
	}
}
