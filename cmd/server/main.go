package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"serverwatch/internal/config"
	"serverwatch/internal/health"
	"serverwatch/internal/httpapi"
	"serverwatch/internal/logging"
	"serverwatch/internal/logsink"
	"serverwatch/internal/notify"
	"serverwatch/internal/probe"
	"serverwatch/internal/scheduler"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_FILE")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store := health.NewStore(cfg.HistoryRetention())
	sink := logsink.New(cfg.StatusLogFile, logger)
	sink.Init(time.Now())

	hosts := config.NewHostProvider(cfg.HostsFile, logger)

	eval := &probe.Evaluator{
		Prober:        &probe.Prober{Pinger: probe.ExecPinger{}, Logger: logger},
		SampleCount:   cfg.SampleCount,
		Timeout:       cfg.PerSampleTimeout(),
		FailThreshold: cfg.FailThreshold,
		RecheckDelay:  cfg.RecheckDelay(),
	}

	var chain notify.Chain
	if sms := notify.NewTwilio(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.ToNumbers); sms != nil {
		chain = append(chain, sms)
	}
	if mail := notify.NewEmail(cfg.Email.SMTPServer, cfg.Email.SMTPPort, cfg.Email.Username, cfg.Email.Password, cfg.Email.FromEmail, cfg.Email.ToEmails); mail != nil {
		chain = append(chain, mail)
	}
	dispatcher := notify.NewDispatcher(logger, chain, notify.Config{
		Enabled:          *cfg.Notifications.Enabled,
		NotifyOnDown:     *cfg.Notifications.NotifyOnDown,
		NotifyOnRecovery: *cfg.Notifications.NotifyOnRecovery,
		Cooldown:         cfg.NotificationCooldown(),
	})

	runner := scheduler.NewRunner(logger, hosts, store, eval, sink, dispatcher,
		cfg.CheckInterval(), cfg.MaxConcurrentChecks)

	ctx, cancel := context.WithCancel(context.Background())
	go runner.Run(ctx)

	api := httpapi.NewServer(logger, store, sink, hosts, cfg.HistoryRetention(),
		cfg.Server.RequestsPerMinute, cfg.Server.Burst)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api_serve_error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
