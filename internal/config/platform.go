package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultChromePaths lists where Chrome is usually installed on this OS.
func DefaultChromePaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
		}
	}
}

// DefaultProcessName is the image name used to terminate running Chrome.
func DefaultProcessName() string {
	switch runtime.GOOS {
	case "windows":
		return "chrome.exe"
	case "darwin":
		return "Google Chrome"
	default:
		return "chrome"
	}
}

// DefaultAutomationProfileDir is the throwaway profile used by the
// automation browser so it never contends with the user's own profile lock.
func DefaultAutomationProfileDir() string {
	return filepath.Join(os.TempDir(), "ChromeAutomation")
}

// DefaultUserProfileDir is the user's real Chrome profile root.
func DefaultUserProfileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome")
	default:
		return filepath.Join(home, ".config", "google-chrome")
	}
}
