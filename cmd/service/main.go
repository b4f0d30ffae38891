package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/nikitkaralius/evopoll/internal/evolution"
	"github.com/nikitkaralius/evopoll/internal/handlers"
	"github.com/nikitkaralius/evopoll/internal/sendpoll"
	"github.com/nikitkaralius/evopoll/internal/telegram"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	log.SetReportTimestamp(true)
	if cfg.LogVerbose {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.LogJSON {
		log.SetFormatter(log.JSONFormatter)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender sendpoll.Sender
	switch cfg.Mode {
	case modeEvolution:
		client, err := evolution.NewClient(evolution.Config{
			BaseURL: cfg.EvolutionURL,
			APIKey:  cfg.EvolutionAPIKey,
			Timeout: cfg.EvolutionTimeout,
		})
		if err != nil {
			log.Fatalf("failed to create evolution client: %v", err)
		}
		sender = client
		log.Printf("Sending polls through Evolution API at %s", cfg.EvolutionURL)
	case modeTelegram:
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			log.Fatal(err)
		}
		if cfg.LogVerbose {
			bot.Debug = true
		}
		log.Printf("Authorized on account @%s", bot.Self.UserName)
		sender = telegram.NewSender(bot, log.Default())
	}

	svc := sendpoll.NewService(sender, sendpoll.WithLogger(log.Default()))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /polls/send", handlers.HandleSendPoll(svc))
	mux.HandleFunc("GET /healthz", handlers.HandleHealthz)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		log.Printf("Service listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
}
