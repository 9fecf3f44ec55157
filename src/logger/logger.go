// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger defines the interface for logging operations.
//
// This interface supports both CLI and [MCP] server modes, allowing seamless
// switching between human-readable output and structured logging. The CLI
// variant writes plain text for terminal users; the MCP variant emits JSON
// lines so log output never corrupts the stdio protocol stream.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints an informational log message.
	Printf(format string, v ...any)
	// Errorf formats and prints an error-level log message.
	Errorf(format string, v ...any)
	// Println prints an informational log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable
// formatting, such as lineage tables and record summaries.
type CLILogger struct {
	out *log.Logger
	err *log.Logger
}

// NewCLILogger creates a new CLI logger with timestamps disabled.
// Informational output goes to stdout, errors to stderr.
func NewCLILogger() *CLILogger {
	return &CLILogger{
		out: log.New(os.Stdout, "", 0),
		err: log.New(os.Stderr, "", 0),
	}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.out.Printf(format, v...) }

// Errorf formats and prints an error message to the error stream.
func (c *CLILogger) Errorf(format string, v ...any) { c.err.Printf("Error: "+format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.out.Println(v...) }

// SetOutput sets the output destination for both CLI streams.
func (c *CLILogger) SetOutput(w io.Writer) {
	c.out.SetOutput(w)
	c.err.SetOutput(w)
}

// MCPLogger implements Logger for [MCP] server mode.
// It suppresses output by default since MCP communication happens over stdio,
// but can be configured to write structured JSON logs to a separate
// destination such as a file or stderr.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
}

// NewMCPLogger creates a new [MCP] logger.
// By default, it's silent (output suppressed) to avoid interfering with the
// [MCP] stdio protocol. Set silent=false and provide a writer to enable
// structured logging.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		writer: writer,
		silent: silent,
	}
}

// write emits a single structured log entry at the given level.
func (m *MCPLogger) write(level, msg string) {
	if m.silent {
		return
	}

	data, _ := json.Marshal(map[string]any{
		"level":   level,
		"message": msg,
	})

	m.mu.Lock()
	fmt.Fprintln(m.writer, string(data))
	m.mu.Unlock()
}

// Printf formats and logs a structured info message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Printf is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) Printf(format string, v ...any) {
	m.write("info", fmt.Sprintf(format, v...))
}

// Errorf formats and logs a structured error message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Errorf is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) Errorf(format string, v ...any) {
	m.write("error", fmt.Sprintf(format, v...))
}

// Println logs a structured info message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Println is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) Println(v ...any) {
	m.write("info", fmt.Sprint(v...))
}

// SetOutput sets the output destination for the MCP logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		m.writer = io.Discard
	} else {
		m.writer = w
	}
}
