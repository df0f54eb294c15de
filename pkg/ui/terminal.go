package ui

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔══════════════════════════════════════════════╗
    ║  ██╗  ██╗███╗   ███╗███████╗██████╗ ██╗ █████╗  ║
    ║  ╚██╗██╔╝████╗ ████║██╔════╝██╔══██╗██║██╔══██╗ ║
    ║   ╚███╔╝ ██╔████╔██║█████╗  ██║  ██║██║███████║ ║
    ║   ██╔██╗ ██║╚██╔╝██║██╔══╝  ██║  ██║██║██╔══██║ ║
    ║  ██╔╝ ██╗██║ ╚═╝ ██║███████╗██████╔╝██║██║  ██║ ║
    ║  ╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝╚═════╝ ╚═╝╚═╝  ╚═╝ ║
    ║        PROFILE MEDIA TIMELINE COLLECTOR         ║
    ╚══════════════════════════════════════════════╝
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

var (
	mu        sync.Mutex
	out       io.Writer = os.Stdout
	quietMode bool
	noColor   bool
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if noColor {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetOutput redirects all printed output
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietMode = quiet
}

// SetNoColor disables ANSI colors
func SetNoColor(disabled bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disabled
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func printf(force bool, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if quietMode && !force {
		return
	}
	fmt.Fprintf(out, format, args...)
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	printf(false, "%s", Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		printf(true, "%s\n", Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printf(true, "%s\n", Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printf(false, "%s\n", Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	printf(false, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		printf(false, "%s\n", Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printf(false, "%s\n", Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printf(false, "%s\n", Magenta(msg))
}

// PrintCommand prints a command the user should run themselves
func PrintCommand(cmd string) {
	printf(true, "\n  %s\n\n", Green(cmd))
}

// chromeCommand returns the usual way to start Chrome on this platform
func chromeCommand(port string) string {
	flag := "--remote-debugging-port=" + port
	switch runtime.GOOS {
	case "darwin":
		return `"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome" ` + flag
	case "windows":
		return `"C:\Program Files\Google\Chrome\Application\chrome.exe" ` + flag
	default:
		return "google-chrome " + flag
	}
}

// PrintChromeInstructions explains how to start Chrome so it can be attached to
func PrintChromeInstructions(debugURL string) {
	port := "9222"
	if u, err := url.Parse(debugURL); err == nil && u.Port() != "" {
		port = u.Port()
	}

	rule := strings.Repeat("=", 60)
	printf(false, "\n%s\n %s\n%s\n", rule, Magenta("CHROME LAUNCH INSTRUCTIONS"), rule)
	printf(false, "\nStart Chrome with remote debugging enabled so the collector can use\n")
	printf(false, "your existing profile, cookies and logins.\n\nRun this in a terminal:\n")
	printf(false, "\n  %s\n\n", Green(chromeCommand(port)))
	printf(false, "%s\n", rule)
}
