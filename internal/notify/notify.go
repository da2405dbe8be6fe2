// Package notify delivers desktop notifications through the session bus
// notification service (org.freedesktop.Notifications).
package notify

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/karmawatch/karmawatch/internal/filter"
)

const (
	dbusDest      = "org.freedesktop.Notifications"
	dbusPath      = dbus.ObjectPath("/org/freedesktop/Notifications")
	dbusInterface = "org.freedesktop.Notifications"

	appName = "karmawatch"
	appIcon = "dialog-information"

	// actionKey is the action activated by clicking the notification body
	actionKey = "default"
)

var (
	// ErrSessionBus indicates the session bus is not reachable
	ErrSessionBus = errors.New("cannot connect to session bus")
)

// Notifier sends one notification per actionable update and resolves clicks
// to the update's feedback page
type Notifier struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	// pending maps notification ids to the update URL they open on click
	pending map[uint32]string
	// openURL is replaceable for testing
	openURL func(url string) error
}

// New connects to the session bus and subscribes to notification signals
func New() (*Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionBus, err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusPath),
		dbus.WithMatchInterface(dbusInterface),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionBus, err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	return &Notifier{
		conn:    conn,
		signals: signals,
		pending: make(map[uint32]string),
		openURL: openInBrowser,
	}, nil
}

// Close unsubscribes from the bus. The shared session connection itself
// stays open for the remainder of the process.
func (n *Notifier) Close() {
	n.conn.RemoveSignal(n.signals)
}

// Send issues one notification for the match. A failure affects only this
// item; the caller logs it and continues with the remaining matches.
func (n *Notifier) Send(m filter.Match) error {
	summary, body := Format(m)

	obj := n.conn.Object(dbusDest, dbusPath)
	call := obj.Call(dbusInterface+".Notify", 0,
		appName,
		uint32(0), // not replacing an earlier notification
		appIcon,
		summary,
		body,
		[]string{actionKey, "Open in browser"},
		map[string]dbus.Variant{},
		int32(-1), // server default expiry
	)

	var id uint32
	if err := call.Store(&id); err != nil {
		return err
	}

	n.pending[id] = m.Update.URL
	return nil
}

// WaitActions handles clicks on the sent notifications until every one of
// them is closed or the timeout lapses. A click opens the update's feedback
// page in the default browser. Signals are drained on the calling goroutine.
func (n *Notifier) WaitActions(timeout time.Duration) {
	if len(n.pending) == 0 || timeout <= 0 {
		return
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case sig, ok := <-n.signals:
			if !ok {
				return
			}
			n.handleSignal(sig)
			if len(n.pending) == 0 {
				return
			}
		case <-deadline.C:
			return
		}
	}
}

// handleSignal resolves a single notification signal. Errors opening the
// browser are swallowed; the notification is spent either way.
func (n *Notifier) handleSignal(sig *dbus.Signal) {
	switch sig.Name {
	case dbusInterface + ".ActionInvoked":
		if len(sig.Body) != 2 {
			return
		}
		id, idOK := sig.Body[0].(uint32)
		key, keyOK := sig.Body[1].(string)
		if !idOK || !keyOK || key != actionKey {
			return
		}
		if url, ok := n.pending[id]; ok {
			n.openURL(url)
			delete(n.pending, id)
		}
	case dbusInterface + ".NotificationClosed":
		if len(sig.Body) != 2 {
			return
		}
		if id, ok := sig.Body[0].(uint32); ok {
			delete(n.pending, id)
		}
	}
}

// Format renders the notification text for a match
func Format(m filter.Match) (summary, body string) {
	summary = fmt.Sprintf("%s is ready for feedback", m.Update.Alias)
	body = fmt.Sprintf("Installed: %s\n%s", strings.Join(m.Packages, ", "), m.Update.URL)
	return summary, body
}

// openInBrowser opens a URL with the desktop default handler
func openInBrowser(url string) error {
	return exec.Command("xdg-open", url).Start()
}
