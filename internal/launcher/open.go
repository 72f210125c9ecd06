// Package launcher opens generated files in the desktop's default viewer.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// ViewerEnv names a program to open files with instead of the platform default
const ViewerEnv = "ETIQUETAS_VIEWER"

// ErrNoFile is returned when the file to open does not exist
var ErrNoFile = errors.New("file to open does not exist")

// Opener opens a file in an external application
type Opener func(ctx context.Context, path string) error

// Open starts the viewer for path and returns without waiting for it to exit
func Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNoFile, path)
	}

	name, args := command(runtime.GOOS, os.Getenv(ViewerEnv), path)

	// Not CommandContext: the viewer must outlive this process
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	slog.Info("opened file", "path", path, "viewer", name, "pid", cmd.Process.Pid)
	return cmd.Process.Release()
}

// command returns the program and arguments that open path on goos
func command(goos, viewer, path string) (string, []string) {
	if viewer != "" {
		return viewer, []string{path}
	}
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
