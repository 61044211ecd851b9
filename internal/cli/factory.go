package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/luckydraw"
	httpAdapter "github.com/aretw0/luckydraw/pkg/adapters/http"
	"github.com/aretw0/luckydraw/pkg/adapters/redis"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/ports"
)

// createRetriever builds the retriever named by opts.Source.
// The file source returns nil so the picker reads from its data directory.
// The returned cleanup func is never nil.
func createRetriever(opts SourceOptions) (ports.Retriever, func(), error) {
	noop := func() {}

	switch opts.Source {
	case "", SourceFile:
		return nil, noop, nil
	case SourceHTTP:
		if opts.URL == "" {
			return nil, noop, fmt.Errorf("--url is required with --source=%s", SourceHTTP)
		}
		r, err := httpAdapter.NewRetriever(opts.URL)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil
	case SourceRedis:
		if opts.RedisAddr == "" {
			return nil, noop, fmt.Errorf("--redis-addr is required with --source=%s", SourceRedis)
		}
		var redisOpts []redis.Option
		if opts.RedisPrefix != "" {
			redisOpts = append(redisOpts, redis.WithPrefix(opts.RedisPrefix))
		}
		r := redis.New(opts.RedisAddr, "", opts.RedisDB, redisOpts...)
		return r, func() { _ = r.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown source %q (want %s, %s or %s)", opts.Source, SourceFile, SourceHTTP, SourceRedis)
	}
}

// createPicker initializes a Picker with standard CLI conventions.
func createPicker(dataDir, flowFile string, seed *uint64, source SourceOptions, logger *slog.Logger, hooks domain.LifecycleHooks) (*luckydraw.Picker, func(), error) {
	retriever, cleanup, err := createRetriever(source)
	if err != nil {
		return nil, cleanup, err
	}

	pickerOpts := []luckydraw.Option{
		luckydraw.WithLogger(logger),
		luckydraw.WithLifecycleHooks(hooks),
	}
	if flowFile != "" {
		pickerOpts = append(pickerOpts, luckydraw.WithFlowFile(flowFile))
	}
	if retriever != nil {
		pickerOpts = append(pickerOpts, luckydraw.WithRetriever(retriever))
	}
	if seed != nil {
		pickerOpts = append(pickerOpts, luckydraw.WithSeed(*seed))
	}

	picker, err := luckydraw.New(dataDir, pickerOpts...)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("error initializing picker: %w", err)
	}
	return picker, cleanup, nil
}
