package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/google/uuid"
)

const defaultAudioContentType = "audio/mpeg"

// AudioRepository stores at most one synthesized artifact per session.
type AudioRepository interface {
	Save(ctx context.Context, sessionID string, ordinal int, audio *entity.SpeechAudio) (*entity.AudioArtifact, error)
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Remove(ctx context.Context, sessionID string) error
}

var _ AudioRepository = &AudioFileStore{}

// AudioFileStore keeps artifacts as <dir>/<session-id>.mp3.
type AudioFileStore struct {
	dir string
	now func() time.Time
}

func NewAudioFileStore(dir string) (*AudioFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir %s: %w", dir, err)
	}

	return &AudioFileStore{
		dir: dir,
		now: time.Now,
	}, nil
}

// Save writes to a temp file in the same directory and renames it into place,
// so a reader never sees a partially written artifact.
func (s *AudioFileStore) Save(_ context.Context, sessionID string, ordinal int, audio *entity.SpeechAudio) (*entity.AudioArtifact, error) {
	path, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+"-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp audio file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(audio.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("write audio: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("close audio: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("move audio into place: %w", err)
	}

	contentType := audio.ContentType
	if contentType == "" {
		contentType = defaultAudioContentType
	}

	return &entity.AudioArtifact{
		Path:        path,
		ContentType: contentType,
		Size:        len(audio.Data),
		Ordinal:     ordinal,
		CreatedAt:   s.now(),
	}, nil
}

func (s *AudioFileStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	path, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, entity.ErrNoAudio
	}
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return data, nil
}

func (s *AudioFileStore) Remove(_ context.Context, sessionID string) error {
	path, err := s.path(sessionID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove audio: %w", err)
	}

	return nil
}

// path only accepts UUID session ids, which keeps file names inside dir.
func (s *AudioFileStore) path(sessionID string) (string, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return "", fmt.Errorf("%w: session id %q", entity.ErrInvalidParameter, sessionID)
	}

	return filepath.Join(s.dir, id.String()+".mp3"), nil
}
