package palette

import (
	"fmt"
	"os/exec"
)

// detectOrder is the priority used by auto-detection.
var detectOrder = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first available palette backend found in PATH.
func DetectBackend() (string, error) {
	for _, name := range detectOrder {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}
