package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// openBrowser opens the login URL in the default browser and prints it in
// case no browser comes up.
func openBrowser(url string) error {
	return launchBrowser(url, runtime.GOOS, os.Stderr)
}

func launchBrowser(url, goos string, stderr io.Writer) error {
	fmt.Fprintf(stderr, "Opening %s\n", url)

	var cmd *exec.Cmd
	switch goos {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return nil
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return nil
}
