// Package autostart registers the application to launch at user login.
package autostart

import (
	"fmt"
	"strings"
)

const (
	appName        = "Screen Dimmer"
	appDescription = "Reduce screen brightness beyond hardware limits"
	appIcon        = "display-brightness-symbolic"
)

// Manager creates and removes the login-startup entry. Enable and Disable
// are idempotent.
type Manager interface {
	Enable() error
	Disable() error
	IsEnabled() bool
}

// Set enables or disables autostart on m.
func Set(m Manager, enabled bool) error {
	if enabled {
		if err := m.Enable(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		return nil
	}
	if err := m.Disable(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	return nil
}

// DesktopEntry renders a freedesktop.org autostart entry launching exec.
func DesktopEntry(exec string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=" + appName + "\n")
	b.WriteString("Exec=" + quoteExec(exec) + "\n")
	b.WriteString("Icon=" + appIcon + "\n")
	b.WriteString("Comment=" + appDescription + "\n")
	b.WriteString("Categories=Utility;\n")
	b.WriteString("Terminal=false\n")
	b.WriteString("StartupNotify=false\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// quoteExec quotes an Exec program path per the desktop entry spec when it
// contains reserved characters.
func quoteExec(path string) string {
	if !strings.ContainsAny(path, " \t\n\"'\\><~|&;$*?#()`") {
		return path
	}
	r := strings.NewReplacer(`\`, `\\\\`, `"`, `\\"`, "`", "\\\\`", `$`, `\\$`)
	return `"` + r.Replace(path) + `"`
}
