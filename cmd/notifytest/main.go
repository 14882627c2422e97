// Command notifytest pushes a fake DOWN alert through the configured
// notification chain so credentials can be verified without waiting
// for a real outage.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"serverwatch/internal/config"
	"serverwatch/internal/health"
	"serverwatch/internal/notify"
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

	var chain notify.Chain
	if sms := notify.NewTwilio(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.Twilio.ToNumbers); sms != nil {
		chain = append(chain, sms)
	}
	if mail := notify.NewEmail(cfg.Email.SMTPServer, cfg.Email.SMTPPort, cfg.Email.Username, cfg.Email.Password, cfg.Email.FromEmail, cfg.Email.ToEmails); mail != nil {
		chain = append(chain, mail)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	via, err := chain.Send(ctx, notify.Alert{
		ServerName: "Test Server",
		Host:       "192.168.1.100",
		Status:     health.StatusDown,
		Detail:     "1st check: 0/4 pings. Recheck: 0/4 pings.",
		At:         time.Now(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "notification test failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("notification delivered via %s\n", via)
}
