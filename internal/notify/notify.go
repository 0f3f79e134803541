// Package notify delivers user-facing signals after ledger operations.
// The ledger itself never depends on it; commands call a Notifier once an
// operation has succeeded or failed.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/Veraticus/finansowy-tracker/internal/cli"
	"github.com/Veraticus/finansowy-tracker/internal/model"
)

// Kind is the severity of a notification.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Notification is a single signal shown to the user.
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Notifier receives notifications.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Info(title, message string)
	Warning(title, message string)
}

// Console renders notifications as styled lines on a writer.
type Console struct {
	w  io.Writer
	mu sync.Mutex
}

// NewConsole creates a notifier writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Success implements Notifier.
func (c *Console) Success(title, message string) {
	c.write(cli.FormatSuccess(title), message)
}

// Error implements Notifier.
func (c *Console) Error(title, message string) {
	c.write(cli.FormatError(title), message)
}

// Info implements Notifier.
func (c *Console) Info(title, message string) {
	c.write(cli.FormatInfo(title), message)
}

// Warning implements Notifier.
func (c *Console) Warning(title, message string) {
	c.write(cli.FormatWarning(title), message)
}

func (c *Console) write(title, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if message == "" {
		_, _ = fmt.Fprintln(c.w, title)
		return
	}
	_, _ = fmt.Fprintf(c.w, "%s %s\n", title, cli.SubtleStyle.Render(message))
}

// Recorder keeps every notification it receives.
type Recorder struct {
	notifications []Notification
	mu            sync.Mutex
}

// Success implements Notifier.
func (r *Recorder) Success(title, message string) { r.add(KindSuccess, title, message) }

// Error implements Notifier.
func (r *Recorder) Error(title, message string) { r.add(KindError, title, message) }

// Info implements Notifier.
func (r *Recorder) Info(title, message string) { r.add(KindInfo, title, message) }

// Warning implements Notifier.
func (r *Recorder) Warning(title, message string) { r.add(KindWarning, title, message) }

func (r *Recorder) add(kind Kind, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Kind: kind, Title: title, Message: message})
}

// Notifications returns a copy of what was recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Nop discards every notification.
type Nop struct{}

// Success implements Notifier.
func (Nop) Success(string, string) {}

// Error implements Notifier.
func (Nop) Error(string, string) {}

// Info implements Notifier.
func (Nop) Info(string, string) {}

// Warning implements Notifier.
func (Nop) Warning(string, string) {}

// quiet passes problems through and drops confirmations.
type quiet struct {
	Notifier
}

func (quiet) Success(string, string) {}
func (quiet) Info(string, string)    {}

// ForSettings returns n when notifications are enabled. Otherwise only
// warnings and errors get through.
func ForSettings(n Notifier, settings model.Settings) Notifier {
	if settings.NotificationsEnabled {
		return n
	}
	return quiet{Notifier: n}
}
