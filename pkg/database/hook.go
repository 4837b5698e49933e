package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/storefront/pkg/database"

// CommandHook is a go-redis hook that opens a client span per command or
// pipeline and logs commands slower than a threshold.
type CommandHook struct {
	threshold time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
}

var _ redis.Hook = (*CommandHook)(nil)

// NewCommandHook creates a hook. A zero threshold or nil logger disables slow
// command logging.
func NewCommandHook(threshold time.Duration, logger *slog.Logger) *CommandHook {
	return &CommandHook{
		threshold: threshold,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// DialHook passes dials through untouched.
func (h *CommandHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

// ProcessHook traces a single command.
func (h *CommandHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, end := h.start(ctx, cmd.Name(), 1)
		err := next(ctx, cmd)
		end(cmd.Name(), err)
		return err
	}
}

// ProcessPipelineHook traces a pipeline or MULTI/EXEC block as one span.
func (h *CommandHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		op := strings.Join(names, " ")

		ctx, end := h.start(ctx, "pipeline", len(cmds))
		err := next(ctx, cmds)
		end(op, err)
		return err
	}
}

func (h *CommandHook) start(ctx context.Context, operation string, size int) (context.Context, func(string, error)) {
	begin := time.Now()
	ctx, span := h.tracer.Start(ctx, "redis."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.Int("db.redis.commands", size),
		),
	)

	return ctx, func(statement string, err error) {
		// A missing key is an answer, not a failure.
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.threshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.threshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.String("statement", statement),
				slog.Duration("duration", elapsed),
			}
			if err != nil && !errors.Is(err, redis.Nil) {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			h.logger.WarnContext(ctx, "slow redis command", attrs...)
		}
	}
}
