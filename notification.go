package headlessterm

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// NotificationPayload carries the fields of a desktop notification request
// (OSC 99). Fields left at their zero value were absent from the request.
type NotificationPayload struct {
	ID          string
	Done        bool
	PayloadType string
	Encoding    string
	Actions     []string
	TrackClose  bool
	Timeout     int
	AppName     string
	Type        string
	IconName    string
	IconCacheID string
	Sound       string
	Urgency     int
	Occasion    string
	Data        []byte
}

// NotificationProvider handles desktop notification requests (OSC 99).
// Notify may return a response string (used for query payloads, where
// PayloadType is "?") to be written back via the response provider; an
// empty return means no response.
type NotificationProvider interface {
	Notify(payload *NotificationPayload) string
}

// NoopNotification discards all notification requests.
type NoopNotification struct{}

func (NoopNotification) Notify(payload *NotificationPayload) string { return "" }

var _ NotificationProvider = (*NoopNotification)(nil)

// DesktopNotification delivers a notification payload to the configured
// NotificationProvider (OSC 99).
func (t *Terminal) DesktopNotification(payload *NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

func (t *Terminal) desktopNotificationInternal(payload *NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}

	if response := provider.Notify(payload); response != "" {
		t.writeResponseString(response)
	}
}

// applyDesktopNotificationPayload parses the payload of an OSC 99 sequence
// found and stripped from the stream by the shared raw-OSC scanner in
// raw_osc.go, and dispatches it as a NotificationPayload.
//
// The wire form is "key=value:key=value:...;text", where the colon-joined
// metadata precedes a final semicolon-delimited text section. Recognized
// metadata keys: i (ID), d (Done, "1"), p (PayloadType), e (Encoding, "1"
// meaning text is base64), a (Actions, comma-separated), c (TrackClose,
// "1"), w (Timeout, milliseconds), n (AppName), t (Type), g (IconName),
// k (IconCacheID), s (Sound), u (Urgency), o (Occasion). Unrecognized keys
// are ignored.
func (t *Terminal) applyDesktopNotificationPayload(raw string) {
	meta, text, _ := strings.Cut(raw, ";")
	payload := &NotificationPayload{}

	for _, field := range strings.Split(meta, ":") {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "i":
			payload.ID = val
		case "d":
			payload.Done = val == "1"
		case "p":
			payload.PayloadType = val
		case "e":
			payload.Encoding = val
		case "a":
			if val != "" {
				payload.Actions = strings.Split(val, ",")
			}
		case "c":
			payload.TrackClose = val == "1"
		case "w":
			if n, err := strconv.Atoi(val); err == nil {
				payload.Timeout = n
			}
		case "n":
			payload.AppName = val
		case "t":
			payload.Type = val
		case "g":
			payload.IconName = val
		case "k":
			payload.IconCacheID = val
		case "s":
			payload.Sound = val
		case "u":
			if n, err := strconv.Atoi(val); err == nil {
				payload.Urgency = n
			}
		case "o":
			payload.Occasion = val
		}
	}

	if payload.Encoding == "1" {
		if decoded, err := base64.StdEncoding.DecodeString(text); err == nil {
			payload.Data = decoded
		}
	} else {
		payload.Data = []byte(text)
	}

	t.DesktopNotification(payload)
}

// SetNotificationProvider sets the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the current notification provider.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}
