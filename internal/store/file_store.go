package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileStore keeps accounts and scores in two flat text files with one
// username:value record per line.
type FileStore struct {
	accountsPath string
	scoresPath   string
	mu           sync.Mutex
}

func NewFileStore(dir, accountsFile, scoresFile string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{
		accountsPath: filepath.Join(dir, accountsFile),
		scoresPath:   filepath.Join(dir, scoresFile),
	}, nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(filepath.Dir(s.accountsPath))
	return err
}

func (s *FileStore) LoadAccounts(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Account
	err := readRecords(s.accountsPath, func(key, value string) error {
		out = append(out, Account{Username: key, Secret: value})
		return nil
	})
	return out, err
}

func (s *FileStore) SaveAccounts(ctx context.Context, accounts []Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, 0, len(accounts))
	for _, a := range accounts {
		lines = append(lines, a.Username+":"+a.Secret)
	}
	return writeRecords(s.accountsPath, lines)
}

func (s *FileStore) LoadScores(ctx context.Context) ([]Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Score
	err := readRecords(s.scoresPath, func(key, value string) error {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		out = append(out, Score{Username: key, Score: n})
		return nil
	})
	return out, err
}

func (s *FileStore) SaveScores(ctx context.Context, scores []Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, 0, len(scores))
	for _, sc := range scores {
		lines = append(lines, sc.Username+":"+strconv.FormatInt(sc.Score, 10))
	}
	return writeRecords(s.scoresPath, lines)
}

// readRecords treats a missing file as empty and skips malformed lines.
func readRecords(path string, fn func(key, value string) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || key == "" {
			log.Warn().Str("file", path).Int("line", lineNo).Msg("store_record_malformed")
			continue
		}
		if err := fn(key, value); err != nil {
			log.Warn().Err(err).Str("file", path).Int("line", lineNo).Msg("store_record_malformed")
		}
	}
	return sc.Err()
}

// writeRecords replaces path atomically through a temp file in the same dir.
func writeRecords(path string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			tmp.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
