package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/docversions/internal/config"
	derrors "git.home.luguber.info/inful/docversions/internal/errors"
	"git.home.luguber.info/inful/docversions/internal/hooks"
	"git.home.luguber.info/inful/docversions/internal/pipeline"
)

// RunHookCmd implements the 'run-hook' command.
type RunHookCmd struct {
	Event string            `arg:"" help:"Event to dispatch (pre_commit)"`
	Args  map[string]string `name:"arg" short:"a" help:"Handler argument as key=value (repeatable)"`
}

func (c *RunHookCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunHook(ctx, g, cfg, c.Event, c.Args)
}

// RunHook runs the configuration phase for cfg and dispatches event with args.
func RunHook(ctx context.Context, g *Global, cfg *config.Config, event string, args map[string]string) error {
	ev := hooks.Event(event)
	if !ev.IsValid() {
		return derrors.ValidationFailed("event", fmt.Sprintf("unknown event; expected one of %v", hooks.Events()))
	}

	p := pipeline.NewPipeline(pipeline.WithLogger(g.logger()))
	defer func() { _ = p.Close() }()

	res, err := p.Configure(ctx, cfg)
	if err != nil {
		return err
	}

	hookArgs := make(hooks.Args, len(args))
	for k, v := range args {
		hookArgs[k] = v
	}
	if err := res.Plugin.RunHook(ctx, ev, hookArgs); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "%s: %d handler(s) ran\n", ev, res.Plugin.Hooks().Handlers(ev))
	return nil
}
