package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/webdone/internal/auth"
	"github.com/octobees/webdone/internal/bot"
	"github.com/octobees/webdone/internal/caller"
	"github.com/octobees/webdone/internal/campaign"
	"github.com/octobees/webdone/internal/config"
	"github.com/octobees/webdone/internal/generator"
	"github.com/octobees/webdone/internal/handler"
	"github.com/octobees/webdone/internal/leads"
	middlewarepkg "github.com/octobees/webdone/internal/middleware"
	"github.com/octobees/webdone/internal/notify"
	"github.com/octobees/webdone/internal/router"
	"github.com/octobees/webdone/internal/site"
	"github.com/octobees/webdone/internal/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	store, err := site.NewStore(cfg.SitesDir, cfg.GeneratedDir)
	if err != nil {
		log.Fatalf("failed to prepare storage: %v", err)
	}
	counter := site.NewCounter(cfg.StatsFile)

	var llm generator.LLMClient
	if cfg.LLMAPIKey != "" {
		openaiLLM, err := generator.NewOpenAILLM(generator.LLMSettings{
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			BaseURL: cfg.LLMBaseURL,
		})
		if err != nil {
			log.Printf("main: llm init failed, pages fall back to the static template err=%v", err)
		} else {
			llm = openaiLLM
		}
	} else {
		log.Printf("main: no model API key, pages fall back to the static template")
	}
	gen := generator.New(llm, store, counter)

	var botAPI *tgbotapi.BotAPI
	if cfg.TelegramToken != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			log.Printf("main: telegram init failed err=%v", err)
			botAPI = nil
		}
	}

	var operatorChannel *notify.Telegram
	if botAPI != nil {
		operatorChannel = notify.NewTelegram(botAPI, cfg.AdminChatID)
	}

	var mailer verify.Mailer
	if m := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom); m != nil {
		mailer = m
	}
	var operatorNotifier verify.OperatorNotifier
	if operatorChannel != nil {
		operatorNotifier = operatorChannel
	}
	verifier := verify.NewService(verify.NewStore(cfg.VerifyTTL, cfg.MasterCode), mailer, operatorNotifier)

	finder := leads.NewFinder(cfg.SerpAPIKey, cfg.GoogleMapsKey)
	dialer := caller.NewDispatcher(caller.Config{
		APIKey:      cfg.RetellAPIKey,
		AgentID:     cfg.RetellAgentID,
		FromNumber:  cfg.RetellPhoneNumber,
		ViewBaseURL: cfg.ViewURL,
	}, gen)
	runner := campaign.NewRunner(finder, gen, dialer, cfg.PublicURL, cfg.CampaignDelay, cfg.CampaignMaxRunning)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	operatorReport := func(string) {}
	if operatorChannel != nil {
		operatorReport = func(text string) {
			if err := operatorChannel.Notify(text); err != nil {
				log.Printf("main: operator report failed err=%v", err)
			}
		}
	}

	handlers := router.Handlers{
		Site:     handler.NewSiteHandler(store, counter, cfg.WebDir, gen.Ready),
		Generate: handler.NewGenerateHandler(gen, operatorChannel, cfg.PublicURL),
		Verify:   handler.NewVerifyHandler(verifier),
		Auth:     handler.NewAuthHandler(jwtManager, cfg.OperatorEmail, cfg.OperatorPasswordHash),
		Admin:    handler.NewAdminHandler(store, runner, operatorReport),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	rootCtx, stopBot := context.WithCancel(context.Background())
	defer stopBot()

	if botAPI != nil {
		chatBot := bot.New(botAPI, gen, verifier, runner, operatorChannel, cfg.PublicURL, cfg.AdminChatID)
		updateCfg := tgbotapi.NewUpdate(0)
		updateCfg.Timeout = 30
		updates := botAPI.GetUpdatesChan(updateCfg)
		go chatBot.Run(rootCtx, updates)
		log.Printf("main: telegram bot running as @%s", botAPI.Self.UserName)
	} else {
		log.Printf("main: telegram bot disabled")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Printf("main: listening on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	stopBot()
	if botAPI != nil {
		botAPI.StopReceivingUpdates()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
