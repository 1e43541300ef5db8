package headlessterm

import (
	"bytes"
	"testing"
)

// spyNotifier records every payload it's given and can canned-reply to
// query requests, standing in for a real desktop-notification backend.
type spyNotifier struct {
	seen       []*NotificationPayload
	queryReply string
}

func (s *spyNotifier) Notify(payload *NotificationPayload) string {
	s.seen = append(s.seen, payload)
	if payload.PayloadType == "?" {
		return s.queryReply
	}
	return ""
}

func (s *spyNotifier) count() int { return len(s.seen) }

func (s *spyNotifier) last() *NotificationPayload {
	if len(s.seen) == 0 {
		return nil
	}
	return s.seen[len(s.seen)-1]
}

func TestNoopNotification_DiscardsSilently(t *testing.T) {
	var provider NotificationProvider = NoopNotification{}
	resp := provider.Notify(&NotificationPayload{PayloadType: "title", Data: []byte("Test")})
	if resp != "" {
		t.Errorf("Notify() = %q, want empty", resp)
	}
}

func TestTerminal_DefaultNotificationProviderIsNoop(t *testing.T) {
	term := New()
	provider := term.NotificationProvider()
	if provider == nil {
		t.Fatal("NotificationProvider() = nil, want NoopNotification default")
	}
	if resp := provider.Notify(&NotificationPayload{PayloadType: "title", Data: []byte("Test")}); resp != "" {
		t.Errorf("default provider Notify() = %q, want empty", resp)
	}
}

func TestTerminal_WithNotificationOptionSetsProvider(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))
	if term.NotificationProvider() != spy {
		t.Error("expected WithNotification provider to be installed")
	}
}

func TestTerminal_SetNotificationProviderAtRuntime(t *testing.T) {
	term := New()
	spy := &spyNotifier{}
	term.SetNotificationProvider(spy)
	if term.NotificationProvider() != spy {
		t.Error("expected SetNotificationProvider to replace the provider")
	}
}

func TestDesktopNotification_DeliversPayloadToProvider(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	term.DesktopNotification(&NotificationPayload{
		ID: "test-1", PayloadType: "title", Data: []byte("Test Title"), Done: true,
	})

	if spy.count() != 1 {
		t.Fatalf("count = %d, want 1", spy.count())
	}
	if last := spy.last(); last.ID != "test-1" || string(last.Data) != "Test Title" {
		t.Errorf("last payload = %+v, want ID=test-1 Data=Test Title", last)
	}
}

func TestDesktopNotification_NilProviderDoesNotPanic(t *testing.T) {
	term := New()
	term.SetNotificationProvider(nil)
	term.DesktopNotification(&NotificationPayload{PayloadType: "title", Data: []byte("Test")})
}

func TestDesktopNotification_QueryReplyIsWrittenBack(t *testing.T) {
	writer := &bytes.Buffer{}
	spy := &spyNotifier{queryReply: "\x1b]99;i=test;p=?\x1b\\"}
	term := New(WithNotification(spy), WithResponse(writer))

	term.DesktopNotification(&NotificationPayload{ID: "test", PayloadType: "?", Done: true})

	if got := writer.String(); got != spy.queryReply {
		t.Errorf("response written = %q, want %q", got, spy.queryReply)
	}
}

func TestDesktopNotification_MiddlewareCanRewritePayload(t *testing.T) {
	spy := &spyNotifier{}
	var intercepted *NotificationPayload

	term := New(
		WithNotification(spy),
		WithMiddleware(&Middleware{
			DesktopNotification: func(payload *NotificationPayload, next func(*NotificationPayload)) {
				intercepted = payload
				rewritten := *payload
				rewritten.ID = "modified-" + payload.ID
				next(&rewritten)
			},
		}),
	)

	term.DesktopNotification(&NotificationPayload{ID: "original", PayloadType: "title", Data: []byte("Test")})

	if intercepted == nil || intercepted.ID != "original" {
		t.Error("expected middleware to observe the unmodified payload")
	}
	if spy.count() != 1 {
		t.Fatalf("count = %d, want 1", spy.count())
	}
	if spy.last().ID != "modified-original" {
		t.Errorf("provider saw ID %q, want modified-original", spy.last().ID)
	}
}

func TestDesktopNotification_MiddlewareCanSuppress(t *testing.T) {
	spy := &spyNotifier{}
	term := New(
		WithNotification(spy),
		WithMiddleware(&Middleware{
			DesktopNotification: func(payload *NotificationPayload, next func(*NotificationPayload)) {
				// swallow, never call next
			},
		}),
	)

	term.DesktopNotification(&NotificationPayload{PayloadType: "title", Data: []byte("Test")})

	if spy.count() != 0 {
		t.Errorf("count = %d, want 0 (suppressed by middleware)", spy.count())
	}
}

func TestDesktopNotification_AllFieldsReachProvider(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	want := &NotificationPayload{
		ID: "notify-123", Done: true, PayloadType: "body", Encoding: "1",
		Actions: []string{"focus", "report"}, TrackClose: true, Timeout: 5000,
		AppName: "TestApp", Type: "alert", IconName: "warning", IconCacheID: "cache-456",
		Sound: "system", Urgency: 2, Occasion: "always", Data: []byte("Notification body content"),
	}

	term.DesktopNotification(want)
	got := spy.last()

	switch {
	case got.ID != want.ID:
		t.Errorf("ID = %q, want %q", got.ID, want.ID)
	case got.Done != want.Done:
		t.Error("Done mismatch")
	case got.PayloadType != want.PayloadType:
		t.Errorf("PayloadType = %q, want %q", got.PayloadType, want.PayloadType)
	case got.Encoding != want.Encoding:
		t.Errorf("Encoding = %q, want %q", got.Encoding, want.Encoding)
	case len(got.Actions) != 2 || got.Actions[0] != "focus":
		t.Errorf("Actions = %v, want [focus report]", got.Actions)
	case !got.TrackClose:
		t.Error("TrackClose should be true")
	case got.Timeout != want.Timeout:
		t.Errorf("Timeout = %d, want %d", got.Timeout, want.Timeout)
	case got.AppName != want.AppName:
		t.Errorf("AppName = %q, want %q", got.AppName, want.AppName)
	case got.Type != want.Type:
		t.Errorf("Type = %q, want %q", got.Type, want.Type)
	case got.IconName != want.IconName:
		t.Errorf("IconName = %q, want %q", got.IconName, want.IconName)
	case got.IconCacheID != want.IconCacheID:
		t.Errorf("IconCacheID = %q, want %q", got.IconCacheID, want.IconCacheID)
	case got.Sound != want.Sound:
		t.Errorf("Sound = %q, want %q", got.Sound, want.Sound)
	case got.Urgency != want.Urgency:
		t.Errorf("Urgency = %d, want %d", got.Urgency, want.Urgency)
	case got.Occasion != want.Occasion:
		t.Errorf("Occasion = %q, want %q", got.Occasion, want.Occasion)
	case string(got.Data) != string(want.Data):
		t.Errorf("Data = %q, want %q", got.Data, want.Data)
	}
}

func TestMiddleware_MergeKeepsBothDesktopNotificationHooks(t *testing.T) {
	mergedCalls := 0
	mw1 := &Middleware{Bell: func(next func()) { next() }}
	mw2 := &Middleware{
		DesktopNotification: func(payload *NotificationPayload, next func(*NotificationPayload)) {
			mergedCalls++
			next(payload)
		},
	}
	mw1.Merge(mw2)

	spy := &spyNotifier{}
	term := New(WithNotification(spy), WithMiddleware(mw1))
	term.DesktopNotification(&NotificationPayload{PayloadType: "title", Data: []byte("Test")})

	if mergedCalls != 1 {
		t.Errorf("merged middleware calls = %d, want 1", mergedCalls)
	}
	if spy.count() != 1 {
		t.Errorf("provider calls = %d, want 1", spy.count())
	}
}

func TestDesktopNotification_ConcurrentCallsAreSafe(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	const n = 10
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			term.DesktopNotification(&NotificationPayload{ID: "test", PayloadType: "title", Data: []byte("Test")})
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}

	if spy.count() != n {
		t.Errorf("count = %d, want %d", spy.count(), n)
	}
}

func TestDesktopNotification_EmptyPayloadIsDelivered(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))
	term.DesktopNotification(&NotificationPayload{})
	if spy.count() != 1 {
		t.Errorf("count = %d, want 1", spy.count())
	}
}

// --- raw OSC 99 wire path, via Write ---

func TestWrite_OSC99BasicPayloadReachesProvider(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	term.Write([]byte("\x1b]99;i=abc:d=1:p=title;Hello\x07"))

	if spy.count() != 1 {
		t.Fatalf("count = %d, want 1", spy.count())
	}
	last := spy.last()
	if last.ID != "abc" || !last.Done || last.PayloadType != "title" {
		t.Errorf("last = %+v, want ID=abc Done=true PayloadType=title", last)
	}
	if string(last.Data) != "Hello" {
		t.Errorf("Data = %q, want %q", last.Data, "Hello")
	}
}

func TestWrite_OSC99Base64EncodedText(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	// e=1 marks the text segment as base64, "SGVsbG8=" decodes to "Hello".
	term.Write([]byte("\x1b]99;e=1;SGVsbG8=\x1b\\"))

	if spy.count() != 1 {
		t.Fatalf("count = %d, want 1", spy.count())
	}
	if got := string(spy.last().Data); got != "Hello" {
		t.Errorf("decoded Data = %q, want %q", got, "Hello")
	}
}

func TestWrite_OSC99SurroundingTextIsPreserved(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	term.Write([]byte("before\x1b]99;p=title;hi\x07after"))

	if spy.count() != 1 {
		t.Fatalf("count = %d, want 1", spy.count())
	}
	if got := term.LineContent(0); got != "beforeafter" {
		t.Errorf("visible line = %q, want %q (OSC 99 should be stripped, not rendered)", got, "beforeafter")
	}
}

func TestWrite_OSC99DoesNotInterfereWithOSC1337(t *testing.T) {
	spy := &spyNotifier{}
	term := New(WithNotification(spy))

	term.Write([]byte("\x1b]1337;SetUserVar=foo=YmFy\x07\x1b]99;p=title;hi\x07"))

	if spy.count() != 1 {
		t.Fatalf("notification count = %d, want 1", spy.count())
	}
}
