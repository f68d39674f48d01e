package importer

import (
	"time"

	"go.uber.org/zap"
)

// Event types emitted while importing.
const (
	EventStart     = "start"
	EventInfo      = "info"
	EventWarning   = "warning"
	EventSheetDone = "sheet_done"
	EventDone      = "done"
	EventError     = "error"
)

// ProgressEvent is one progress / warning notification.
type ProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func newEvent(typ, message string, data interface{}) ProgressEvent {
	return ProgressEvent{
		Type:      typ,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Notifier is the warning / progress sink of an import.
type Notifier interface {
	Notify(event ProgressEvent)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ProgressEvent)

// Notify calls f.
func (f NotifierFunc) Notify(event ProgressEvent) { f(event) }

// NopNotifier discards events.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(ProgressEvent) {}

// ChannelNotifier forwards events to a buffered channel, dropping events when
// the channel is full so a slow reader never stalls the import.
type ChannelNotifier chan ProgressEvent

// Notify sends without blocking.
func (ch ChannelNotifier) Notify(event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}

// LogNotifier writes events to a zap logger.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify logs warnings and errors at their level, everything else at debug.
func (n LogNotifier) Notify(event ProgressEvent) {
	if n.Logger == nil {
		return
	}
	switch event.Type {
	case EventWarning:
		n.Logger.Warn(event.Message)
	case EventError:
		n.Logger.Error(event.Message)
	default:
		n.Logger.Debug(event.Message, zap.String("type", event.Type))
	}
}

// Collector keeps every event, for tests and the CLI.
type Collector struct {
	Events []ProgressEvent
}

// Notify appends the event.
func (c *Collector) Notify(event ProgressEvent) {
	c.Events = append(c.Events, event)
}

// Warnings returns the messages of warning events.
func (c *Collector) Warnings() []string {
	out := []string{}
	for _, e := range c.Events {
		if e.Type == EventWarning {
			out = append(out, e.Message)
		}
	}
	return out
}
