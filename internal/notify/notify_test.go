package notify

import (
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"

	"github.com/karmawatch/karmawatch/internal/bodhi"
	"github.com/karmawatch/karmawatch/internal/filter"
)

func testMatch() filter.Match {
	return filter.Match{
		Update: bodhi.Update{
			Alias: "FEDORA-2026-u1",
			URL:   "https://bodhi.fedoraproject.org/updates/FEDORA-2026-u1",
		},
		Packages: []string{"bar", "foo"},
	}
}

func TestFormat(t *testing.T) {
	summary, body := Format(testMatch())

	if !strings.Contains(summary, "FEDORA-2026-u1") {
		t.Errorf("summary should name the update, got %q", summary)
	}
	if !strings.Contains(body, "bar, foo") {
		t.Errorf("body should list covered packages, got %q", body)
	}
	if !strings.Contains(body, "https://bodhi.fedoraproject.org/updates/FEDORA-2026-u1") {
		t.Errorf("body should carry the feedback URL, got %q", body)
	}
}

func TestHandleSignalActionInvoked(t *testing.T) {
	var opened []string
	n := &Notifier{
		pending: map[uint32]string{7: "https://example.org/u1"},
		openURL: func(url string) error {
			opened = append(opened, url)
			return nil
		},
	}

	n.handleSignal(&dbus.Signal{
		Name: dbusInterface + ".ActionInvoked",
		Body: []interface{}{uint32(7), "default"},
	})

	if len(opened) != 1 || opened[0] != "https://example.org/u1" {
		t.Errorf("expected the pending URL to be opened, got %v", opened)
	}
	if len(n.pending) != 0 {
		t.Errorf("invoked notification should be spent, pending: %v", n.pending)
	}
}

func TestHandleSignalWrongAction(t *testing.T) {
	n := &Notifier{
		pending: map[uint32]string{7: "https://example.org/u1"},
		openURL: func(url string) error {
			t.Errorf("unexpected open of %s", url)
			return nil
		},
	}

	n.handleSignal(&dbus.Signal{
		Name: dbusInterface + ".ActionInvoked",
		Body: []interface{}{uint32(7), "settings"},
	})

	if len(n.pending) != 1 {
		t.Errorf("non-default action should leave the notification pending")
	}
}

func TestHandleSignalClosed(t *testing.T) {
	n := &Notifier{
		pending: map[uint32]string{7: "https://example.org/u1"},
		openURL: func(url string) error {
			t.Errorf("close must not open %s", url)
			return nil
		},
	}

	n.handleSignal(&dbus.Signal{
		Name: dbusInterface + ".NotificationClosed",
		Body: []interface{}{uint32(7), uint32(1)},
	})

	if len(n.pending) != 0 {
		t.Errorf("closed notification should be removed, pending: %v", n.pending)
	}
}

func TestHandleSignalUnknownID(t *testing.T) {
	n := &Notifier{
		pending: map[uint32]string{7: "https://example.org/u1"},
		openURL: func(url string) error {
			t.Errorf("foreign notification must not open %s", url)
			return nil
		},
	}

	n.handleSignal(&dbus.Signal{
		Name: dbusInterface + ".ActionInvoked",
		Body: []interface{}{uint32(99), "default"},
	})

	if len(n.pending) != 1 {
		t.Errorf("foreign notification must not touch pending state")
	}
}
