// Package worker serves evaluation requests over NATS request-reply.
// Evaluations are pure and share only the read-only registry, so requests
// are handled concurrently with no coordination beyond the queue group.
package worker

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/parcelworks/bylaw/zoning"
)

// Request is the JSON body of an evaluation request message.
type Request struct {
	// ID is the caller's property identifier, echoed back in the reply.
	ID string `json:"id,omitempty"`

	// Designation is the raw zone designation string.
	Designation string `json:"designation"`

	// Geometry is the lot's dimensions; any field may be absent.
	Geometry zoning.LotGeometry `json:"geometry"`
}

// Reply is the JSON body of an evaluation reply. Exactly one of Result
// and Error is set.
type Reply struct {
	ID          string                       `json:"id,omitempty"`
	ReportID    string                       `json:"report_id"`
	GeneratedAt time.Time                    `json:"generated_at"`
	Result      *zoning.DevelopmentPotential `json:"result,omitempty"`
	Error       string                       `json:"error,omitempty"`
}

// Worker subscribes on a subject and answers evaluation requests.
type Worker struct {
	evaluator *zoning.Evaluator
	nc        *nats.Conn
	subject   string
	queue     string
	logger    *slog.Logger

	sub *nats.Subscription
}

// Config configures a worker.
type Config struct {
	// Subject is the request subject, e.g. "bylaw.evaluate".
	Subject string

	// Queue is the queue group name; workers in the same group share the
	// request load.
	Queue string

	// Logger for logging events.
	Logger *slog.Logger
}

// New builds a worker on an existing NATS connection.
func New(nc *nats.Conn, evaluator *zoning.Evaluator, config Config) *Worker {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		evaluator: evaluator,
		nc:        nc,
		subject:   config.Subject,
		queue:     config.Queue,
		logger:    logger,
	}
}

// Start subscribes and begins answering requests.
func (w *Worker) Start() error {
	sub, err := w.nc.QueueSubscribe(w.subject, w.queue, w.handle)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", w.subject, err)
	}
	w.sub = sub
	w.logger.Info("evaluation worker started",
		"subject", w.subject,
		"queue", w.queue)
	return nil
}

// Stop drains the subscription so in-flight requests finish.
func (w *Worker) Stop() error {
	if w.sub == nil {
		return nil
	}
	return w.sub.Drain()
}

func (w *Worker) handle(msg *nats.Msg) {
	if msg.Reply == "" {
		// Fire-and-forget messages have nowhere to send the result.
		w.logger.Warn("dropping request without reply subject", "subject", msg.Subject)
		return
	}

	var req Request
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		w.respond(msg, Reply{Error: "invalid request: " + err.Error()})
		return
	}

	reply := Reply{
		ID:          req.ID,
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
	res, err := w.evaluator.Evaluate(req.Designation, req.Geometry)
	if err != nil {
		reply.Error = err.Error()
		w.respond(msg, reply)
		return
	}
	reply.Result = res
	w.respond(msg, reply)
}

func (w *Worker) respond(msg *nats.Msg, reply Reply) {
	data, err := json.Marshal(reply)
	if err != nil {
		w.logger.Error("marshal reply failed", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		w.logger.Error("respond failed", "subject", msg.Subject, "error", err)
	}
}
