package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"shiftwatch/lib/configutil"
	"shiftwatch/lib/scrapers/nhsp"
	"shiftwatch/lib/serviceutil"
	"shiftwatch/services/monitor"
	"shiftwatch/services/notify"
)

type PortalConfig struct {
	Url      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`

	LoginSelector    string `json:"login_selector"`
	PasswordSelector string `json:"password_selector"`
	SubmitSelector   string `json:"submit_selector"`

	CredentialEndpoint string `json:"credential_endpoint"`
	SearchEndpoint     string `json:"search_endpoint"`

	Headless                *bool `json:"headless"`
	BootstrapTimeoutSeconds int   `json:"bootstrap_timeout_seconds"`
}

type MonitorConfig struct {
	IntervalSeconds            int `json:"interval_seconds"`
	BootstrapAttempts          int `json:"bootstrap_attempts"`
	BootstrapRetryDelaySeconds int `json:"bootstrap_retry_delay_seconds"`
}

type Config struct {
	Portal  PortalConfig  `json:"portal"`
	Monitor MonitorConfig `json:"monitor"`
	Smtp    notify.Config `json:"smtp"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	headless := true
	if cfg.Portal.Headless != nil {
		headless = *cfg.Portal.Headless
	}

	sessions := nhsp.NewSessionManager(nhsp.Config{
		PortalURL:          cfg.Portal.Url,
		Username:           cfg.Portal.Username,
		Password:           cfg.Portal.Password,
		LoginSelector:      cfg.Portal.LoginSelector,
		PasswordSelector:   cfg.Portal.PasswordSelector,
		SubmitSelector:     cfg.Portal.SubmitSelector,
		CredentialEndpoint: cfg.Portal.CredentialEndpoint,
		SearchEndpoint:     cfg.Portal.SearchEndpoint,
		Headless:           headless,
		BootstrapTimeout:   time.Duration(cfg.Portal.BootstrapTimeoutSeconds) * time.Second,
	})
	defer sessions.Close()

	svc := monitor.NewService(monitor.Options{
		Source:              sessions,
		Notifier:            notify.NewMailer(cfg.Smtp),
		PortalURL:           cfg.Portal.Url,
		Interval:            time.Duration(cfg.Monitor.IntervalSeconds) * time.Second,
		BootstrapAttempts:   cfg.Monitor.BootstrapAttempts,
		BootstrapRetryDelay: time.Duration(cfg.Monitor.BootstrapRetryDelaySeconds) * time.Second,
	})

	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		serviceutil.Fatal("monitor", err)
	}
}
