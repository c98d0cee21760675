package logging

import (
	"sync"
)

var (
	mu       sync.RWMutex
	instance *Logger
)

// InitLogger builds the process-wide logger from config.
// Calling it again replaces the previous instance.
func InitLogger(config *LogConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		_ = instance.Close()
	}
	instance = logger
	return nil
}

// GetGlobalLogger returns the process-wide logger.
// Before InitLogger is called it returns a logger writing to stdout at info level.
func GetGlobalLogger() *Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance, _ = NewLogger(&LogConfig{Level: LevelInfo})
	}
	return instance
}
