package keepawake

import (
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	screenSaverDest      = "org.freedesktop.ScreenSaver"
	screenSaverPath      = dbus.ObjectPath("/org/freedesktop/ScreenSaver")
	screenSaverInhibit   = "org.freedesktop.ScreenSaver.Inhibit"
	screenSaverUnInhibit = "org.freedesktop.ScreenSaver.UnInhibit"
	inhibitReason        = "workout timer running"
)

// ScreenSaver inhibits display sleep through the freedesktop ScreenSaver
// interface on the D-Bus session bus.
type ScreenSaver struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	appName string
	cookie  uint32
	active  bool
}

// NewScreenSaver connects to the session bus.
func NewScreenSaver(appName string) (*ScreenSaver, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &ScreenSaver{conn: conn, appName: appName}, nil
}

// Acquire implements Capability.
func (s *ScreenSaver) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return nil
	}

	var cookie uint32
	call := s.conn.Object(screenSaverDest, screenSaverPath).Call(screenSaverInhibit, 0, s.appName, inhibitReason)
	if err := call.Store(&cookie); err != nil {
		return fmt.Errorf("inhibit screensaver: %w", err)
	}
	s.cookie = cookie
	s.active = true
	return nil
}

// Release implements Capability.
func (s *ScreenSaver) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil
	}

	call := s.conn.Object(screenSaverDest, screenSaverPath).Call(screenSaverUnInhibit, 0, s.cookie)
	s.active = false
	s.cookie = 0
	if call.Err != nil {
		return fmt.Errorf("uninhibit screensaver: %w", call.Err)
	}
	return nil
}

// Close releases any inhibition and closes the bus connection.
func (s *ScreenSaver) Close() error {
	releaseErr := s.Release()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return releaseErr
	}
	closeErr := s.conn.Close()
	s.conn = nil
	return errors.Join(releaseErr, closeErr)
}
