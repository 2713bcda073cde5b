package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/RawsTourix/bot-farm/internal/config"
	"github.com/RawsTourix/bot-farm/internal/gateway"
	"github.com/RawsTourix/bot-farm/internal/generator"
	"github.com/RawsTourix/bot-farm/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway server",
	Long: `Starts the unified gateway: the HTTP transport with the /message,
/health, /stats and /ws endpoints, backed by the telegram, web and cli
adapters and the central message processor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		gen := buildGenerator(cfg)

		processor := gateway.NewProcessor(gen, nil)
		telegramAdapter := gateway.NewTelegramAdapter(processor)
		webAdapter := gateway.NewWebAdapter(processor)
		cliAdapter := gateway.NewCLIAdapter(processor)
		processor.SetSessionCounter(webAdapter.SessionCount)

		router := gateway.NewRouter(telegramAdapter, webAdapter, cliAdapter)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Adapters start as an unordered group; one failing does not stop
		// the others.
		initAdapters(ctx, router.Adapters())

		srv := server.New(server.Config{
			Port:    cfg.Server.Port,
			Origins: cfg.Server.Origins,
			APIKeys: cfg.Keys.List(),
		}, router, processor)

		serverErr := make(chan error, 1)
		go func() {
			serverErr <- srv.Start()
		}()

		select {
		case err := <-serverErr:
			return fmt.Errorf("server: %w", err)
		case <-ctx.Done():
		}

		log.Printf("shutting down gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		shutdownAdapters(shutdownCtx, router.Adapters())
		return srv.Shutdown(shutdownCtx)
	},
}

// buildGenerator selects the response generator from configuration.
func buildGenerator(cfg *config.Config) gateway.Generator {
	switch cfg.Generator.Provider {
	case config.ProviderOpenAI:
		return generator.NewOpenAI(os.Getenv("OPENAI_API_KEY"), cfg.Generator.Model)
	default:
		return generator.NewStub()
	}
}

func initAdapters(ctx context.Context, adapters []gateway.Adapter) {
	var wg sync.WaitGroup
	for _, a := range adapters {
		wg.Add(1)
		go func(a gateway.Adapter) {
			defer wg.Done()
			if err := a.Initialize(ctx); err != nil {
				log.Printf("initializing %s adapter: %v", a.Name(), err)
			}
		}(a)
	}
	wg.Wait()
}

func shutdownAdapters(ctx context.Context, adapters []gateway.Adapter) {
	var wg sync.WaitGroup
	for _, a := range adapters {
		wg.Add(1)
		go func(a gateway.Adapter) {
			defer wg.Done()
			if err := a.Shutdown(ctx); err != nil {
				log.Printf("shutting down %s adapter: %v", a.Name(), err)
			}
		}(a)
	}
	wg.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
