package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/PtitMax51/vent-pdf/internal/annotate"
	"github.com/PtitMax51/vent-pdf/internal/cartouche"
	"github.com/PtitMax51/vent-pdf/internal/config"
	"github.com/PtitMax51/vent-pdf/internal/location"
	"github.com/PtitMax51/vent-pdf/internal/wind"
	"github.com/PtitMax51/vent-pdf/internal/wind/sources"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	var (
		ville      string
		input      string
		output     string
		noFill     bool
		stamp      string
		showSource bool
		geocode    bool
		every      time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "vent-pdf",
		Short: "Injecte un cartouche vent (4 lignes) en haut-droite d'un PDF",
		Long: "Récupère le vent courant (Open-Meteo temps réel, repli Météo-France " +
			"prévision la plus proche) et annote la première page du document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg.Layout.Fill = !noFill
			cfg.Layout.Stamp = stamp
			if err := cfg.Validate(); err != nil {
				return err
			}

			annotator := buildAnnotator(cfg, geocode, showSource, logger)

			if every <= 0 {
				return runOnce(annotator, ville, input, output, logger)
			}
			return runEvery(annotator, ville, input, output, every, logger)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&ville, "ville", "", `Ex. : "Reims" ou "Epernay"`)
	flags.StringVar(&input, "input", "", "PDF d'entrée")
	flags.StringVar(&output, "output", "", "PDF de sortie")
	flags.Float64Var(&cfg.Layout.Width, "w", cfg.Layout.Width, "largeur du cartouche (points)")
	flags.Float64Var(&cfg.Layout.Height, "h", cfg.Layout.Height, "hauteur du cartouche (points)")
	flags.Float64Var(&cfg.Layout.BodySize, "fontsize", cfg.Layout.BodySize, "taille du corps")
	flags.Float64Var(&cfg.Layout.TitleSize, "title-fontsize", cfg.Layout.TitleSize, "taille de la ville")
	flags.Float64Var(&cfg.Layout.Margin, "margin", cfg.Layout.Margin, "marge depuis le coin haut-droit")
	flags.BoolVar(&noFill, "no-fill", false, "sans fond blanc (diagnostic)")
	flags.StringVar(&stamp, "stamp", "", `micro-tampon quasi invisible ("auto" = UUID par exécution)`)
	flags.BoolVar(&showSource, "show-source", false, "affiche la source en petit (OMF/MF)")
	flags.BoolVar(&geocode, "geocode", false, "résout la ville via géocodage au lieu de la table interne")
	flags.DurationVar(&every, "every", 0, "réexécute périodiquement (ex. 15m); 0 = une seule fois")

	for _, f := range []string{"ville", "input", "output"} {
		if err := rootCmd.MarkFlagRequired(f); err != nil {
			logger.Error("flag setup", "err", err)
			os.Exit(1)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildAnnotator(cfg *config.AppConfig, geocode, showSource bool, logger *slog.Logger) *annotate.Annotator {
	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{Timeout: cfg.SourceTimeout}

	var resolver location.Resolver
	if geocode {
		resolver = location.NewGeocodeResolver(cfg.SourceTimeout, logger)
	} else {
		resolver = location.NewStaticResolver(location.DefaultTable())
	}

	clock := clockwork.NewRealClock()

	// Priority order: realtime first, forecast fallback second.
	srcs := []wind.Source{
		sources.NewOpenMeteo(httpClient, logger),
		sources.NewMeteoFrance(httpClient, cfg.MeteoFranceToken, clock, logger),
	}
	chain := wind.NewChain(srcs, cfg.SourceTimeout, logger)
	engine := cartouche.NewEngine(cfg.Layout.Fonts, logger)

	return annotate.New(resolver, chain, engine, clock, logger, annotate.Options{
		Layout:     cfg.Layout,
		ShowSource: showSource,
	})
}

func runOnce(a *annotate.Annotator, ville, input, output string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := a.Run(ctx, ville, input, output)
	if err != nil {
		return err
	}

	for _, line := range res.Lines {
		fmt.Println(line)
	}
	if res.Source != "" {
		logger.Info("document annoté", "source", res.Source, "output", output)
	} else {
		logger.Info("document annoté sans données de vent", "output", output)
	}
	return nil
}

// runEvery refreshes the document on a fixed interval until interrupted.
// Each tick is a full, independent run: fresh place, fresh observation,
// fresh box.
func runEvery(a *annotate.Annotator, ville, input, output string, every time.Duration, logger *slog.Logger) error {
	s := gocron.NewScheduler(time.UTC)
	_, err := s.Every(every).StartImmediately().Do(func() {
		if err := runOnce(a, ville, input, output, logger); err != nil {
			logger.Error("refresh failed", "err", err)
		}
	})
	if err != nil {
		return err
	}
	s.StartAsync()
	defer s.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("arrêt demandé")
	return nil
}
