// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

var androidLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

func logEvent(cfg Config, message string, fields ...any) {
	logAt(cfg, slog.LevelInfo, message, fields...)
}

func logWarn(cfg Config, message string, fields ...any) {
	logAt(cfg, slog.LevelWarn, message, fields...)
}

func logAt(cfg Config, level slog.Level, message string, fields ...any) {
	baseFields := []any{"timestamp_ns", time.Now().UTC().UnixNano()}
	if cfg.CorrelationID != "" {
		baseFields = append(baseFields, "correlation_id", cfg.CorrelationID)
	}
	allFields := append(baseFields, fields...)
	androidLogger.Log(context.Background(), level, message, allFields...)
	emitLogRecord(cfg, level, message, allFields)
}

// emitLogRecord mirrors the event to the OpenTelemetry logger provider so an
// OTLP collector receives the same stream as stdout. With no provider
// configured the global is a no-op.
func emitLogRecord(cfg Config, level slog.Level, message string, fields []any) {
	logger := global.GetLoggerProvider().Logger("dartsctl")
	var rec otellog.Record
	rec.SetTimestamp(time.Now().UTC())
	rec.SetBody(otellog.StringValue(message))
	if level >= slog.LevelWarn {
		rec.SetSeverity(otellog.SeverityWarn)
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		rec.AddAttributes(otellog.String(key, fmt.Sprint(fields[i+1])))
	}
	logger.Emit(cfg.context(), rec)
}

type lineLogWriter struct {
	cfg    Config
	fields []any
	buffer []byte
	msg    string
}

func (writer *lineLogWriter) Write(payload []byte) (int, error) {
	writer.buffer = append(writer.buffer, payload...)
	for {
		newlineIndex := bytes.IndexByte(writer.buffer, '\n')
		if newlineIndex == -1 {
			break
		}
		line := strings.TrimSpace(string(writer.buffer[:newlineIndex]))
		writer.buffer = writer.buffer[newlineIndex+1:]
		if line != "" {
			logEvent(writer.cfg, writer.msg, append(writer.fields, "line", line)...)
		}
	}
	return len(payload), nil
}

func newLineLogWriterWithMessage(cfg Config, message string, fields ...any) io.Writer {
	return &lineLogWriter{
		cfg:    cfg,
		fields: fields,
		msg:    message,
	}
}

func newCommandLogWriter(cfg Config, command string, args []string) io.Writer {
	fields := []any{"command", command, "stream", "stderr"}
	if len(args) > 0 {
		fields = append(fields, "args", strings.Join(args, " "))
	}
	return newLineLogWriterWithMessage(cfg, "command stderr", fields...)
}
