package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/reshetovitsme/global-chat-relay/internal/modules/channel/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements Repository with one JSON file per channel
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based channel repository
func NewFileStorage(basePath string) (Repository, error) {
	channelPath := filepath.Join(basePath, "channels")
	if err := os.MkdirAll(channelPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create channels directory").Wrap(storageError(err))
	}

	return &FileStorage{basePath: channelPath}, nil
}

func (s *FileStorage) path(channelID int64) string {
	return filepath.Join(s.basePath, strconv.FormatInt(channelID, 10)+".json")
}

func (s *FileStorage) Register(ctx context.Context, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(channelID)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := json.MarshalIndent(&domain.Channel{ID: channelID, RegisteredAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return oops.With("channel_id", channelID, "context", "failed to marshal channel").Wrap(err)
	}

	if err := writeFileSync(path, data); err != nil {
		return oops.In("channel-repository").With("channel_id", channelID, "context", "failed to write channel").Wrap(storageError(err))
	}
	return nil
}

func (s *FileStorage) Unregister(ctx context.Context, channelID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(channelID)); err != nil && !os.IsNotExist(err) {
		return oops.In("channel-repository").With("channel_id", channelID, "context", "failed to remove channel").Wrap(storageError(err))
	}
	return syncDir(s.basePath)
}

func (s *FileStorage) ListAll(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read channels directory").Wrap(storageError(err))
	}

	ids := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (int64, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return 0, false
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			return 0, false
		}

		var channel domain.Channel
		if err := json.Unmarshal(data, &channel); err != nil || channel.ID == 0 {
			return 0, false
		}

		return channel.ID, strings.TrimSuffix(entry.Name(), ".json") == strconv.FormatInt(channel.ID, 10)
	})
	slices.Sort(ids)

	return ids, nil
}

// Close is a no-op; every mutation is synced before it returns.
func (s *FileStorage) Close() error {
	return nil
}

// writeFileSync writes through a temp file so readers never see a partial
// record, and fsyncs both the file and its directory.
func writeFileSync(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".channel-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return syncDir(filepath.Dir(path))
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return storageError(err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return storageError(err)
	}
	return nil
}
