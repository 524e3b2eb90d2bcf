package recorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"decisionhq/meridian/pkg/audit"
	"decisionhq/meridian/pkg/rules/engine"
)

// Config contains configuration for the decision recorder.
type Config struct {
	// Enabled enables audit recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout bounds both enqueueing when the buffer is full and each
	// storage write.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Service and Environment tag every record with deployment identity.
	Service     string
	Environment string
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
		Service:      "meridian",
	}
}

// Recorder writes decision audit records asynchronously.
type Recorder struct {
	storage    audit.Storage
	config     *Config
	recordChan chan *audit.DecisionRecord
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger

	stored  atomic.Int64
	dropped atomic.Int64
}

// NewRecorder creates a decision recorder over the given storage backend and
// starts its background writer.
func NewRecorder(storage audit.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *audit.DecisionRecord, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
		"enabled", config.Enabled,
	)
	return r
}

// RecordDecision builds an audit record from a successful evaluation and
// enqueues it. The method returns once enqueued; it never blocks on storage.
func (r *Recorder) RecordDecision(correlationID string, facts map[string]interface{}, decision *engine.Decision) error {
	if !r.config.Enabled {
		return nil
	}

	record, err := r.baseRecord(correlationID, facts)
	if err != nil {
		return err
	}
	record.RulePath = decision.RulePath
	record.RuleFingerprint = decision.Fingerprint
	record.EvalDuration = decision.Duration

	if resultJSON, err := json.Marshal(decision.Result); err == nil {
		record.Result = string(resultJSON)
	}
	if traceJSON, err := json.Marshal(decision.Trace); err == nil {
		record.Trace = string(traceJSON)
	}

	return r.enqueue(record)
}

// RecordFailure builds an audit record for a failed evaluation. Failures are
// audited just like decisions: a caller asking "why was there no decision"
// is still an audit question.
func (r *Recorder) RecordFailure(correlationID, rulePath string, facts map[string]interface{}, evalErr error, elapsed time.Duration) error {
	if !r.config.Enabled {
		return nil
	}

	record, err := r.baseRecord(correlationID, facts)
	if err != nil {
		return err
	}
	record.RulePath = rulePath
	record.EvalDuration = elapsed
	record.Error = evalErr.Error()
	record.ErrorType = fmt.Sprintf("%T", evalErr)

	return r.enqueue(record)
}

func (r *Recorder) baseRecord(correlationID string, facts map[string]interface{}) (*audit.DecisionRecord, error) {
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return nil, fmt.Errorf("marshal fact snapshot: %w", err)
	}

	now := time.Now().UTC()
	return &audit.DecisionRecord{
		ID:            uuid.New().String(),
		CorrelationID: correlationID,
		Facts:         string(factsJSON),
		FactsHash:     HashContent(factsJSON),
		EvaluatedAt:   now,
		RecordedAt:    now,
		Service:       r.config.Service,
		Environment:   r.config.Environment,
	}, nil
}

func (r *Recorder) enqueue(record *audit.DecisionRecord) error {
	select {
	case r.recordChan <- record:
		return nil
	case <-time.After(r.config.WriteTimeout):
		r.dropped.Add(1)
		r.logger.Error("audit channel full, dropping record",
			"record_id", record.ID,
			"correlation_id", record.CorrelationID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return audit.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.dropped.Add(1)
		return audit.NewRecorderError(record.ID, context.Canceled)
	}
}

// Stored returns how many records have been written to storage.
func (r *Recorder) Stored() int64 {
	return r.stored.Load()
}

// Dropped returns how many records were dropped because the buffer stayed
// full or the recorder was shutting down.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close drains the channel and waits for pending writes to complete.
func (r *Recorder) Close() error {
	r.logger.Info("shutting down audit recorder")
	close(r.done)
	r.wg.Wait()
	r.logger.Info("audit recorder shut down", "dropped", r.dropped.Load())
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain whatever is buffered before exiting.
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) writeRecord(record *audit.DecisionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store decision record",
			"record_id", record.ID,
			"correlation_id", record.CorrelationID,
			"error", err,
		)
		return
	}

	r.stored.Add(1)
	r.logger.Debug("decision recorded",
		"record_id", record.ID,
		"rule_path", record.RulePath,
		"correlation_id", record.CorrelationID,
	)
}
