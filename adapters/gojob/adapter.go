package gojob

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocmd "github.com/goliatone/go-command"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-oauth-store/command"
	"github.com/goliatone/go-oauth-store/core"

	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	"github.com/goliatone/go-job/queue/worker"
)

const JobIDPrune = "oauthstore.prune"

const (
	ParamOlderThan = "older_than"
	ParamTarget    = "target"
)

// RetryPolicy defines queue retry bounds to avoid unbounded retry loops.
type RetryPolicy struct {
	MaxAttempts     int
	MaxDelay        time.Duration
	DeadLetterOnMax bool
}

// NormalizeAttempt enforces bounded retry behavior for a nack operation.
func (p RetryPolicy) NormalizeAttempt(opts queue.NackOptions, attempt int) queue.NackOptions {
	out := opts
	out.Reason = strings.TrimSpace(out.Reason)
	if out.Delay < 0 {
		out.Delay = 0
	}
	if p.MaxDelay > 0 && out.Delay > p.MaxDelay {
		out.Delay = p.MaxDelay
	}
	if out.DeadLetter {
		out.Requeue = false
	}
	if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
		out.Requeue = false
		if p.DeadLetterOnMax || out.DeadLetter {
			out.DeadLetter = true
		}
	}
	if !out.Requeue && !out.DeadLetter {
		out.Requeue = true
	}
	return out
}

// ToExecutionMessage maps a prune command onto a go-job message.
func ToExecutionMessage(msg command.PruneMessage, idempotencyKey string) *job.ExecutionMessage {
	params := map[string]any{}
	if !msg.OlderThan.IsZero() {
		params[ParamOlderThan] = msg.OlderThan.UTC().Format(time.RFC3339Nano)
	}
	if target := strings.TrimSpace(msg.Target); target != "" {
		params[ParamTarget] = target
	}
	return &job.ExecutionMessage{
		JobID:          JobIDPrune,
		ScriptPath:     JobIDPrune,
		Parameters:     params,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	}
}

// FromExecutionMessage rebuilds the prune command carried by msg.
func FromExecutionMessage(msg *job.ExecutionMessage) (command.PruneMessage, error) {
	if msg == nil {
		return command.PruneMessage{}, core.InvalidArgument("message", core.ConstraintRequired, "")
	}
	if strings.TrimSpace(msg.JobID) != JobIDPrune {
		return command.PruneMessage{}, core.InvalidArgument("job_id", core.ConstraintEnum,
			fmt.Sprintf("unexpected job id %q", msg.JobID))
	}
	out := command.PruneMessage{}
	switch value := msg.Parameters[ParamOlderThan].(type) {
	case nil:
	case time.Time:
		out.OlderThan = value.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
		if err != nil {
			return command.PruneMessage{}, core.InvalidArgument(ParamOlderThan, core.ConstraintFormat, err.Error())
		}
		out.OlderThan = parsed.UTC()
	default:
		return command.PruneMessage{}, core.InvalidArgument(ParamOlderThan, core.ConstraintFormat,
			fmt.Sprintf("unsupported older_than type %T", value))
	}
	if target, ok := msg.Parameters[ParamTarget].(string); ok {
		out.Target = strings.TrimSpace(target)
	}
	if err := out.Validate(); err != nil {
		return command.PruneMessage{}, err
	}
	return out, nil
}

type PruneEnqueuer struct {
	enqueuer queue.Enqueuer
}

func NewPruneEnqueuer(enqueuer queue.Enqueuer) *PruneEnqueuer {
	return &PruneEnqueuer{enqueuer: enqueuer}
}

func (e *PruneEnqueuer) EnqueuePrune(ctx context.Context, msg command.PruneMessage, idempotencyKey string) error {
	if e == nil || e.enqueuer == nil {
		return fmt.Errorf("gojob: enqueuer is not configured")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	return e.enqueuer.Enqueue(ctx, ToExecutionMessage(msg, idempotencyKey))
}

// PruneWorker pulls prune jobs from a queue and runs them through the prune
// command. Scheduling the calls to ProcessNext is left to the host.
type PruneWorker struct {
	dequeuer queue.Dequeuer
	command  gocmd.Commander[command.PruneMessage]
	policy   RetryPolicy
	logger   glog.Logger
}

func NewPruneWorker(
	dequeuer queue.Dequeuer,
	cmd gocmd.Commander[command.PruneMessage],
	policy RetryPolicy,
	logger glog.Logger,
) *PruneWorker {
	return &PruneWorker{
		dequeuer: dequeuer,
		command:  cmd,
		policy:   policy,
		logger:   glog.Ensure(logger),
	}
}

// ProcessNext handles one delivery. Malformed messages are dead-lettered;
// failed runs are nacked under the retry policy for the given attempt.
func (w *PruneWorker) ProcessNext(ctx context.Context, attempt int) (core.PruneReport, error) {
	if w == nil || w.dequeuer == nil || w.command == nil {
		return core.PruneReport{}, fmt.Errorf("gojob: prune worker is not configured")
	}
	delivery, err := w.dequeuer.Dequeue(ctx)
	if err != nil {
		return core.PruneReport{}, err
	}

	msg, err := FromExecutionMessage(delivery.Message())
	if err != nil {
		w.logger.Error("oauthstore prune job rejected", "error", err)
		nackErr := delivery.Nack(ctx, w.policy.NormalizeAttempt(queue.NackOptions{
			DeadLetter: true,
			Reason:     err.Error(),
		}, attempt))
		if nackErr != nil {
			return core.PruneReport{}, fmt.Errorf("gojob: nack rejected prune job: %w", nackErr)
		}
		return core.PruneReport{}, err
	}

	collector := gocmd.NewResult[core.PruneReport]()
	if err := w.command.Execute(gocmd.ContextWithResult(ctx, collector), msg); err != nil {
		w.logger.Error("oauthstore prune job failed", "attempt", attempt, "error", err)
		nackErr := delivery.Nack(ctx, w.policy.NormalizeAttempt(queue.NackOptions{
			Requeue: true,
			Reason:  err.Error(),
		}, attempt))
		if nackErr != nil {
			return core.PruneReport{}, fmt.Errorf("gojob: nack failed prune job: %w", nackErr)
		}
		return core.PruneReport{}, err
	}
	if err := delivery.Ack(ctx); err != nil {
		return core.PruneReport{}, err
	}
	report, _ := collector.Load()
	w.logger.Info("oauthstore prune job completed",
		"tokens_deleted", report.Tokens.Deleted,
		"authorizations_deleted", report.Authorizations.Deleted,
	)
	return report, nil
}

// LoggingHook reports go-job worker lifecycle events for prune jobs.
type LoggingHook struct {
	logger glog.Logger
}

func NewLoggingHook(logger glog.Logger) *LoggingHook {
	return &LoggingHook{logger: glog.Ensure(logger)}
}

func (h *LoggingHook) OnStart(_ context.Context, event worker.Event) {
	h.logger.Debug("oauthstore job started", eventFields(event)...)
}

func (h *LoggingHook) OnSuccess(_ context.Context, event worker.Event) {
	h.logger.Info("oauthstore job succeeded", eventFields(event)...)
}

func (h *LoggingHook) OnFailure(_ context.Context, event worker.Event) {
	h.logger.Error("oauthstore job failed", eventFields(event)...)
}

func (h *LoggingHook) OnRetry(_ context.Context, event worker.Event) {
	h.logger.Warn("oauthstore job retrying", eventFields(event)...)
}

func eventFields(event worker.Event) []any {
	message := event.Message
	if message == nil && event.Delivery != nil {
		message = event.Delivery.Message()
	}
	jobID := ""
	if message != nil {
		jobID = message.JobID
	}
	fields := []any{
		"job_id", jobID,
		"attempt", event.Attempt,
		"duration_ms", event.Duration.Milliseconds(),
	}
	if event.Delay > 0 {
		fields = append(fields, "delay_ms", event.Delay.Milliseconds())
	}
	if event.Err != nil {
		fields = append(fields, "error", event.Err.Error())
	}
	return fields
}

var _ worker.Hook = (*LoggingHook)(nil)
