package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/KOMKZ/go-yogan-listener/config"
	"github.com/KOMKZ/go-yogan-listener/di"
	"github.com/KOMKZ/go-yogan-listener/dom"
	"github.com/KOMKZ/go-yogan-listener/event"
	"github.com/KOMKZ/go-yogan-listener/flagx"
	"github.com/KOMKZ/go-yogan-listener/logger"
	"github.com/KOMKZ/go-yogan-listener/telemetry"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type flags struct {
	Config    string        `flag:"config,c" usage:"config file (yaml, json or toml)"`
	EnvPrefix string        `flag:"env-prefix" default:"LISTENER" usage:"prefix of environment overrides"`
	Events    int           `flag:"events,n" default:"3" usage:"native click events to fire"`
	Timeout   time.Duration `flag:"timeout" default:"2s" usage:"how long to wait for the first dispatch"`
	Channel   string        `flag:"channel" default:"ping" usage:"event channel name"`
	LogLevel  string        `flag:"log-level" usage:"overrides logger.level" config:"logger.level"`
	Metrics   bool          `flag:"metrics" usage:"record listener metrics" config:"metrics.enabled"`
	Exporter  string        `flag:"exporter" usage:"telemetry exporter: stdout or none" config:"telemetry.exporter"`
}

func newRootCommand(out io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "oslisten",
		Short:        "Fire simulated native events through a DOM event channel",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flagx.ParseFlags(cmd, &f); err != nil {
				return err
			}
			app, err := newApp(f, out)
			if err != nil {
				return err
			}
			defer app.shutdown()
			return app.run(cmd.Context())
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	if err := flagx.BindFlags(cmd, &f); err != nil {
		panic(err)
	}
	return cmd
}

type app struct {
	flags     flags
	out       io.Writer
	injector  *do.RootScope
	cfg       *config.Config
	logs      *logger.Manager
	log       *logger.CtxZapLogger
	telemetry *telemetry.Provider
	metrics   *event.Metrics
}

func newApp(f flags, out io.Writer) (*app, error) {
	injector := do.New()
	di.RegisterCoreProviders(injector, di.Options{
		ConfigFile: f.Config,
		EnvPrefix:  f.EnvPrefix,
		Flags:      &f,
		Output:     out,
		Module:     "oslisten",
	})

	a := &app{flags: f, out: out, injector: injector}
	var err error
	if a.cfg, err = do.Invoke[*config.Config](injector); err != nil {
		injector.Shutdown()
		return nil, err
	}
	a.logs = do.MustInvoke[*logger.Manager](injector)
	a.log = do.MustInvoke[*logger.CtxZapLogger](injector)
	if a.telemetry, err = do.Invoke[*telemetry.Provider](injector); err != nil {
		injector.Shutdown()
		return nil, err
	}
	if a.metrics, err = do.Invoke[*event.Metrics](injector); err != nil {
		injector.Shutdown()
		return nil, err
	}

	if files := do.MustInvoke[*config.Loader](injector).LoadedFiles(); len(files) > 0 {
		a.log.Debug("config loaded", zap.Strings("files", files))
	}
	return a, nil
}

func (a *app) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := a.telemetry.Tracer("oslisten").Start(ctx, "oslisten.run")
	defer span.End()

	ch := dom.NewChannel(a.flags.Channel,
		dom.WithEventOptions(
			event.WithLogger(logger.NewZapLogger(a.logs.GetLogger("listener"))),
			event.WithDefaults(a.cfg.Event),
			event.WithMetrics(a.metrics),
		),
		dom.WithDefaults(a.cfg.DOM),
	)

	button := dom.NewEventTarget()
	mirror := dom.NewEventTarget()

	clicks := 0
	printer := event.NewNamedListener("printer", func(_, data any) error {
		payload, ok := data.(dom.Payload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", data)
		}
		clicks++
		fmt.Fprintf(a.out, "listener: %s #%v\n", payload.Event.Type(), payload.Args)
		return nil
	})
	if _, err := ch.SubscribeWithKey(printer, "printer"); err != nil {
		return err
	}

	mirrored := 0
	mirror.AddEventListener(ch.Name(), dom.NewHandler(func(e dom.Event, _ ...any) {
		if _, ok := e.(*dom.CustomEvent); ok {
			mirrored++
		}
	}), dom.ListenerOptions{})
	ch.AttachToDOMElement(mirror)
	defer ch.DetachFromDOMElement(mirror)

	if _, err := ch.BindToDOMEvent(button, "click"); err != nil {
		return err
	}

	waiter := ch.WaitUntilFirstDispatch()
	a.log.InfoCtx(ctx, "firing native events", zap.String("channel", ch.Name()), zap.Int("events", a.flags.Events))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i := 1; i <= a.flags.Events; i++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			button.Emit(dom.NewEvent("click"), i)
		}
		return nil
	})

	waitCtx, cancel := context.WithTimeout(ctx, a.flags.Timeout)
	defer cancel()
	first, waitErr := waiter.Wait(waitCtx)

	if err := g.Wait(); err != nil {
		return err
	}
	if waitErr != nil {
		a.log.WarnCtx(ctx, "no dispatch before timeout", zap.Duration("timeout", a.flags.Timeout))
	} else if p, ok := first.(dom.Payload); ok {
		fmt.Fprintf(a.out, "first dispatch: %s %v\n", p.Event.Type(), p.Args)
	}

	if _, err := ch.UnbindDOMEvent(button, "click"); err != nil {
		return err
	}
	if _, err := ch.UnsubscribeWithKey("printer"); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "clicks=%d mirrored=%d listeners=%d\n", clicks, mirrored, ch.ListenerCount())
	a.log.InfoCtx(ctx, "done", zap.Int("clicks", clicks), zap.Int("mirrored", mirrored))
	return nil
}

// shutdown flushes telemetry and closes the loggers through the injector
func (a *app) shutdown() {
	if err := a.injector.Shutdown(); err != nil {
		a.log.Warn("injector shutdown failed", zap.Error(err))
	}
}
