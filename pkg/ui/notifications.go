package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier sends a desktop notification when a run ends
type Notifier struct {
	sender  NotificationSender
	enabled bool
}

// NewNotifier creates a Notifier for the current platform
func NewNotifier(enabled bool) *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}

	return &Notifier{sender: sender, enabled: enabled}
}

// NewNotifierWithSender is used by tests
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender, enabled: true}
}

func (n *Notifier) send(title, message string) {
	if n.enabled && n.sender != nil {
		// Notifications are best effort
		_ = n.sender.Send(title, message)
	}
}

// SendSuccess reports a finished run
func (n *Notifier) SendSuccess(title, message string) {
	n.send(title, message)
}

// SendError reports a failed run
func (n *Notifier) SendError(title, message string) {
	n.send(title, message)
}
