package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rashmika0907/zentask/internal/assist"
	"github.com/rashmika0907/zentask/internal/briefing"
	"github.com/rashmika0907/zentask/internal/config"
	"github.com/rashmika0907/zentask/internal/genai"
	"github.com/rashmika0907/zentask/internal/session"
	"github.com/rashmika0907/zentask/internal/storage"
	"github.com/rashmika0907/zentask/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Zentask web server",
	Long: `Start the Zentask web server.

Examples:
  zentask serve
  zentask serve --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "web server address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	kv, err := storage.NewSQLiteKV(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()

	gen := genai.NewClientWithBaseURL(cfg.AI.APIKey, cfg.AI.Endpoint)
	assistant := assist.NewAssistant(gen, cfg.AI.TextModel)
	briefer := briefing.NewBriefer(gen, &briefing.WAVSink{Dir: cfg.Briefing.OutputDir}, briefing.Options{
		Model:      cfg.AI.TTSModel,
		Voice:      cfg.AI.Voice,
		SampleRate: cfg.Briefing.SampleRate,
	})
	sessions := session.NewManager(kv)

	fmt.Printf("Starting Zentask at http://localhost%s\n", addr)
	server := web.NewServer(kv, sessions, assistant, briefer)
	return server.Run(addr)
}
