package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"blackjack-server/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
)

// Init installs the global zerolog logger. A file sink is size-capped and
// rotated; when it cannot be opened logging stays on stdout.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	output := console
	setWriter(os.Stdout)
	var fileErr error
	if cfg.File != "" {
		fw, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		switch {
		case err != nil:
			fileErr = err
		case cfg.Tee:
			output = zerolog.MultiLevelWriter(console, fw)
			setWriter(io.MultiWriter(os.Stdout, fw))
		default:
			output = fw
			setWriter(fw)
		}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("file", cfg.File).Msg("log_file_unavailable")
	}
}

// Writer is the raw sink shared with non-zerolog loggers such as the HTTP
// request logger.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}

func setWriter(w io.Writer) {
	writerMu.Lock()
	writer = w
	writerMu.Unlock()
}
