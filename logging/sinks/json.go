package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"titans-realm/server/logging"
)

// JSONSink appends one JSON object per line to the configured file.
type JSONSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
}

func NewJSONSink(cfg logging.JSONConfig) (*JSONSink, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("json sink: file path required")
	}
	file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("json sink: open %s: %w", cfg.FilePath, err)
	}
	return &JSONSink{file: file, writer: bufio.NewWriter(file)}, nil
}

func (s *JSONSink) Write(event logging.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json sink: marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.WriteByte('\n')
}

func (s *JSONSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
