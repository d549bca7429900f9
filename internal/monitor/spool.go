package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// SpoolSource reads messages from a directory of JSON files, one message per
// file, as dropped there by the mail gateway. A consumed file is renamed
// with a .done suffix so a sweep never sees it twice.
type SpoolSource struct {
	dir    string
	logger zerolog.Logger
}

// NewSpoolSource creates a spool reader for the given directory.
func NewSpoolSource(dir string, logger zerolog.Logger) *SpoolSource {
	return &SpoolSource{
		dir:    dir,
		logger: logger.With().Str("component", "mail_spool").Logger(),
	}
}

// FetchRecent reads and consumes every pending message file. An unreadable
// file is skipped with a warning so one bad drop cannot wedge the sweep.
func (s *SpoolSource) FetchRecent(ctx context.Context) ([]Message, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("monitor: reading spool %s: %w", s.dir, err)
	}

	var messages []Message
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("skipping unreadable spool file")
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("skipping malformed spool file")
			continue
		}
		if msg.ID == "" {
			msg.ID = strings.TrimSuffix(name, ".json")
		}

		if err := os.Rename(path, path+".done"); err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("could not mark spool file consumed")
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
