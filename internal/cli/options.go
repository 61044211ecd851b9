package cli

import (
	"io"
	"os"
	"time"

	"github.com/aretw0/luckydraw/internal/presentation/report"
)

// Resource sources selectable with --source.
const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceRedis = "redis"
)

// SourceOptions selects where resources are retrieved from.
type SourceOptions struct {
	Source      string
	URL         string
	RedisAddr   string
	RedisPrefix string
	RedisDB     int
}

// ReportOptions configures the final report.
type ReportOptions struct {
	Title    string
	Sentinel string
	Width    int
}

func (o ReportOptions) build() []report.Option {
	return []report.Option{
		report.WithTitle(o.Title),
		report.WithSentinel(o.Sentinel),
		report.WithWidth(o.Width),
	}
}

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	DataDir  string
	FlowFile string
	Headless bool
	JSON     bool
	Debug    bool
	Delay    time.Duration
	DelaySet bool
	Seed     *uint64
	SourceOptions
	Report ReportOptions

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

func (o RunOptions) stdin() io.Reader {
	if o.Stdin != nil {
		return o.Stdin
	}
	return os.Stdin
}

func (o RunOptions) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	DataDir     string
	FlowFile    string
	Addr        string
	Debug       bool
	Seed        *uint64
	MaxSessions int
	SessionTTL  time.Duration
	SourceOptions
	Report ReportOptions
}
