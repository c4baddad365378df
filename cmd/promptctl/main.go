// Command promptctl serves the command prompt over a serial device or stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	prompt "github.com/goliatone/go-prompt"
	"github.com/goliatone/go-prompt/cron"
	"github.com/goliatone/go-prompt/subsystem/system"
)

var version = "dev"

type Globals struct {
	Config   string `help:"Path to a .yaml, .yml or .toml config file." type:"existingfile" short:"c"`
	LogLevel string `help:"Log level." default:"info" enum:"trace,debug,info,warn,error"`
	LogJSON  bool   `help:"Log JSON lines instead of console text." name:"log-json"`
}

type CLI struct {
	Globals

	Serve ServeCmd `cmd:"" default:"withargs" help:"Answer prompt requests on a port."`
	Ports PortsCmd `cmd:"" help:"List serial ports."`
	Check CheckCmd `cmd:"" help:"Validate and print the effective configuration."`
}

type ServeCmd struct {
	Port      string        `help:"Serial device, or '-' for stdin and stdout." default:"-" short:"p"`
	Baud      int           `help:"Serial baud rate." default:"115200"`
	Heartbeat time.Duration `help:"Interval between heartbeat log lines, 0 to disable." default:"1m"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := g.logger()

	port, err := openPort(c.Port, c.Baud, cfg.TickInterval())
	if err != nil {
		return err
	}
	defer port.Close()

	p := prompt.Open(cfg, port, prompt.WithLogger(logger))

	scheduler := cron.NewScheduler(
		cron.WithLogger(logger),
		cron.WithErrorHandler(func(err error) { logger.Error("job error: %v", err) }),
	)
	if c.Heartbeat > 0 {
		_, err := scheduler.ScheduleCron(cron.JobConfig{
			Name:       "heartbeat",
			Expression: "@every " + c.Heartbeat.String(),
		}, heartbeat(p, logger))
		if err != nil {
			return err
		}
	}

	sys := system.New(
		system.WithVersion(version),
		system.WithStats(p.Stats),
		system.WithJobs(scheduler),
	)
	if err := sys.Register(p); err != nil {
		return err
	}
	if err := p.Initialize(); err != nil {
		logger.Warn("some recipes were not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = scheduler.Stop(stopCtx)
	}()

	logger.Info("serving %s every %s", c.Port, cfg.TickInterval())
	return serve(ctx, p, port, cfg.TickInterval(), logger)
}

type PortsCmd struct{}

func (c *PortsCmd) Run(*Globals) error {
	ports, err := listPorts()
	if err != nil {
		return err
	}
	for _, name := range ports {
		fmt.Println(name)
	}
	return nil
}

type CheckCmd struct{}

func (c *CheckCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("message_length=%d pool_size=%d buffer_size=%d directory_size=%d rate_limit=%g rate_burst=%d tick_interval=%s\n",
		cfg.MessageLength, cfg.PoolSize, cfg.BufferSize, cfg.DirectorySize,
		cfg.RateLimit, cfg.RateBurst, cfg.TickInterval())
	return nil
}

func (g *Globals) loadConfig() (prompt.Config, error) {
	cfg := prompt.DefaultConfig()
	if g.Config != "" {
		var err error
		if cfg, err = prompt.LoadConfig(g.Config); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

// logger writes to stderr so it never mixes with stdio replies.
func (g *Globals) logger() prompt.Logger {
	if g.LogJSON {
		return prompt.NewJSONLogger(os.Stderr, g.LogLevel)
	}
	return prompt.NewConsoleLogger(os.Stderr, g.LogLevel)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("promptctl"),
		kong.Description("Serve the command prompt over a byte transport."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli.Globals))
}
