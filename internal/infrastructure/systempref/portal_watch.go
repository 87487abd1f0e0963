package systempref

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/sitetheme/internal/logging"
)

const (
	settingsInterface = "org.freedesktop.portal.Settings"
	settingChanged    = "SettingChanged"
	gnomeInterface    = "org.gnome.desktop.interface"
)

// PortalWatcher listens for SettingChanged signals of the XDG desktop portal
// so OS preference flips are noticed without waiting for the next poll.
type PortalWatcher struct {
	conn     *dbus.Conn
	signals  chan *dbus.Signal
	onChange func()
	done     chan struct{}
	once     sync.Once
}

// WatchPortal subscribes to portal setting changes and calls onChange for
// every appearance related one. The error is informational: callers keep
// polling when the session bus or the portal is unavailable.
func WatchPortal(ctx context.Context, onChange func()) (*PortalWatcher, error) {
	log := logging.FromContext(ctx)

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(settingsInterface),
		dbus.WithMatchMember(settingChanged),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("subscribe to %s.%s: %w", settingsInterface, settingChanged, err)
	}

	w := &PortalWatcher{
		conn:     conn,
		signals:  make(chan *dbus.Signal, 16),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	conn.Signal(w.signals)
	go w.loop(ctx)

	log.Debug().Msg("portal setting watcher started")
	return w, nil
}

func (w *PortalWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case sig, ok := <-w.signals:
			if !ok {
				return
			}
			if w.dispatch(sig) {
				logging.FromContext(ctx).Debug().Interface("body", sig.Body).Msg("portal appearance setting changed")
			}
		}
	}
}

// dispatch calls onChange when sig is an appearance setting change.
func (w *PortalWatcher) dispatch(sig *dbus.Signal) bool {
	if sig == nil || sig.Name != settingsInterface+"."+settingChanged || len(sig.Body) < 2 {
		return false
	}
	namespace, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	if !relevantSetting(namespace, key) {
		return false
	}
	w.onChange()
	return true
}

// relevantSetting reports whether a portal setting feeds the dark or motion
// signals.
func relevantSetting(namespace, key string) bool {
	switch namespace {
	case appearanceNamespace:
		return key == "color-scheme" || key == "reduced-motion"
	case gnomeInterface:
		return key == "color-scheme" || key == "enable-animations" || key == "gtk-theme"
	}
	return false
}

// Close unsubscribes and releases the bus connection.
func (w *PortalWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		if w.conn == nil {
			return
		}
		w.conn.RemoveSignal(w.signals)
		err = w.conn.Close()
	})
	return err
}
