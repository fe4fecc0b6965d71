package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iotanames/inresolver"
	"github.com/iotanames/inresolver/common"
	"github.com/iotanames/inresolver/schema"
	"github.com/urfave/cli/v2"
)

var release = "dev"

func main() {
	app := &cli.App{
		Name:  "inresolver",
		Usage: "resolve .iota names and route navigations to their websites",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DATA_DIR"}},
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "public_url", Value: "", Usage: "origin serving resolve.html and redirect.html, default http://127.0.0.1<port>", EnvVars: []string{"PUBLIC_URL"}},
			&cli.StringFlag{Name: "metric_port", Value: ":8081", Usage: "prometheus listen address, empty disables", EnvVars: []string{"METRIC_PORT"}},
			&cli.BoolFlag{Name: "session_store", Value: true, Usage: "keep tab state in memory instead of bolt", EnvVars: []string{"SESSION_STORE"}},
			&cli.DurationFlag{Name: "rpc_timeout", Value: 10 * time.Second, EnvVars: []string{"RPC_TIMEOUT"}},
			&cli.DurationFlag{Name: "cache_life_window", Value: 24 * time.Hour, Usage: "cache entry lifetime, also the largest cacheTtlMs the settings accept", EnvVars: []string{"CACHE_LIFE_WINDOW"}},
			&cli.DurationFlag{Name: "preview_interval", Value: time.Second, Usage: "preview countdown tick", EnvVars: []string{"PREVIEW_INTERVAL"}},
			&cli.StringFlag{Name: "sentry_dsn", Value: "", EnvVars: []string{"SENTRY_DSN"}},
			&cli.IntFlag{Name: "rate_limit", Value: 0, Usage: "api requests per minute per client, 0 disables", EnvVars: []string{"RATE_LIMIT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	if err := common.InitSentry(c.String("sentry_dsn"), release); err != nil {
		return err
	}
	common.NewMetricServer(c.String("metric_port"))

	s := inresolver.New(schema.Config{
		DataDir:         c.String("data_dir"),
		Port:            c.String("port"),
		PublicUrl:       c.String("public_url"),
		MetricPort:      c.String("metric_port"),
		SessionStore:    c.Bool("session_store"),
		RpcTimeout:      c.Duration("rpc_timeout"),
		CacheLifeWindow: c.Duration("cache_life_window"),
		PreviewInterval: c.Duration("preview_interval"),
		RateLimit:       c.Int("rate_limit"),
	})
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
