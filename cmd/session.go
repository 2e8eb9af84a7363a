package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/concrete-docs/internal/config"
	"github.com/ziadkadry99/concrete-docs/internal/pipeline"
	"github.com/ziadkadry99/concrete-docs/internal/site"
	"github.com/ziadkadry99/concrete-docs/internal/watch"
)

// sessionOptions selects what a build or serve invocation does after
// loading the config.
type sessionOptions struct {
	build bool
	serve bool
	watch bool
	// live decorates pages per request from the schema dir.
	live bool
	open bool
	// debounce overrides the watcher's settle time.
	debounce time.Duration
	// onListen is told the server URL; by default it is printed.
	onListen func(url string)
}

// runSession builds, serves and watches as requested until ctx is done.
func runSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, b *pipeline.Builder, opts sessionOptions) error {
	if opts.serve && opts.watch {
		b.InlineScripts = append(b.InlineScripts, pipeline.InlineScript{
			ID:   site.LiveReloadScriptID,
			Code: site.LiveReloadScript,
		})
	}

	if opts.build {
		summary, err := b.Build(ctx)
		if err != nil {
			return err
		}
		printSummary(summary, b.OutputDir)
	}
	if !opts.serve && !opts.watch {
		return nil
	}

	var srv *site.Server
	var ln net.Listener
	if opts.serve {
		srvCfg := site.Config{
			Host:            cfg.Server.Host,
			Port:            cfg.Server.Port,
			Root:            b.OutputDir,
			AllowAllOrigins: cfg.Server.AllowAllOrigins,
			Logger:          logger,
		}
		if opts.live {
			srvCfg.Root = b.SchemaDir
			srvCfg.Live = b
		}
		srv = site.New(srvCfg)
		srv.SetCatalog(b.Heading(), b.Types)

		l, err := net.Listen("tcp", srv.Addr())
		if err != nil {
			return err
		}
		ln = l
	}

	var watcher *watch.Watcher
	if opts.watch {
		w, err := watch.New(watch.Options{
			Dir:      b.SchemaDir,
			Debounce: opts.debounce,
			SkipDirs: []string{b.OutputDir},
			Logger:   logger,
		})
		if err != nil {
			if ln != nil {
				_ = ln.Close()
			}
			return err
		}
		watcher = w
	}

	g, gctx := errgroup.WithContext(ctx)

	if srv != nil {
		g.Go(func() error { return srv.Serve(gctx, ln) })

		url := "http://" + ln.Addr().String()
		if opts.onListen != nil {
			opts.onListen(url)
		} else {
			fmt.Printf("Serving documentation at %s\n", url)
			fmt.Println("Press Ctrl+C to stop.")
		}
		if opts.open {
			go site.OpenBrowser(url)
		}
	}

	if watcher != nil {
		fmt.Printf("Watching %s for changes\n", b.SchemaDir)
		g.Go(func() error {
			return watcher.Run(gctx, func(ctx context.Context, _ []string) error {
				if !opts.live {
					if err := rebuild(ctx, cfg, b); err != nil {
						return err
					}
				}
				if srv != nil {
					srv.SetCatalog(b.Heading(), b.Types)
					n := srv.Hub().Broadcast()
					logger.Debug("reload sent", "clients", n)
				}
				return nil
			})
		})
	}

	return g.Wait()
}

// rebuild picks up added or removed type pages, then builds again.
func rebuild(ctx context.Context, cfg *config.Config, b *pipeline.Builder) error {
	types, err := resolveTypes(cfg)
	if err != nil {
		return err
	}
	b.Types = types
	summary, err := b.Build(ctx)
	if err != nil {
		return err
	}
	printSummary(summary, b.OutputDir)
	return nil
}
