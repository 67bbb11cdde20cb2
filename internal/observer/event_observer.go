package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EventType represents the type of pipeline event
type EventType string

const (
	// CompositionStarted when a render plan build begins
	CompositionStarted EventType = "composition_started"
	// CompositionCompleted when a render plan is produced
	CompositionCompleted EventType = "composition_completed"
	// ValidationCompleted when a compliance verdict is produced
	ValidationCompleted EventType = "validation_completed"
	// ExportCompleted when an artifact finishes encoding
	ExportCompleted EventType = "export_completed"
	// PipelineFailed when a per-format pipeline errors
	PipelineFailed EventType = "pipeline_failed"
	// MattingFellBack when background removal failed and the original asset was used
	MattingFellBack EventType = "matting_fell_back"
)

// PipelineEvent represents one lifecycle event of a per-format pipeline run
type PipelineEvent struct {
	EventType    EventType              `json:"event_type"`
	Timestamp    time.Time              `json:"timestamp"`
	JobID        string                 `json:"job_id"`
	Format       string                 `json:"format"`
	Duration     time.Duration          `json:"duration,omitempty"`
	Success      bool                   `json:"success"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"job_id":     event.JobID,
		"format":     event.Format,
		"success":    event.Success,
	}
	if event.Duration > 0 {
		fields["duration_ms"] = event.Duration.Milliseconds()
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case PipelineFailed:
		o.logger.WithFields(fields).Error("Creative pipeline failed")
	case MattingFellBack:
		o.logger.WithFields(fields).Warn("Background removal fell back to original asset")
	case CompositionStarted:
		o.logger.WithFields(fields).Debug("Composition started")
	default:
		o.logger.WithFields(fields).Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// EventBus is a thread-safe Subject implementation
type EventBus struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers an observer
func (b *EventBus) Subscribe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, observer)
}

// Unsubscribe removes an observer by name
func (b *EventBus) Unsubscribe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.observers {
		if o.GetObserverName() == observer.GetObserverName() {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// NotifyObservers delivers an event to every subscriber
func (b *EventBus) NotifyObservers(ctx context.Context, event PipelineEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, o := range b.observers {
		o.OnEvent(ctx, event)
	}
}
