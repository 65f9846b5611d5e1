package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/profiremanager/pfm-cli/internal/client"
	"github.com/profiremanager/pfm-cli/internal/config"
	"github.com/profiremanager/pfm-cli/internal/utils"
)

const usage = `pfm - client ProFireManager

Usage:
  pfm <commande> [options]

Commandes:
  generer      prévisualiser les dates d'une récurrence
  soumettre    générer et enregistrer des disponibilités
  lister       afficher les disponibilités d'un employé
  attribution  lancer l'attribution automatique et suivre sa progression
  export       exporter disponibilités ou planning au format iCalendar

Options communes: -profil <nom> (profil du fichier de configuration)
`

// app bundles what every subcommand needs.
type app struct {
	cfg      *config.Config
	client   *client.Client
	validate *validator.Validate
	trans    ut.Translator
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	/**********************************************
	 * cancellation on SIGINT/SIGTERM
	 **********************************************/
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("la commande a échoué", "commande", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string) error {
	switch command {
	case "generer":
		return cmdGenerer(args)
	case "soumettre":
		return withApp(ctx, args, cmdSoumettre)
	case "lister":
		return withApp(ctx, args, cmdLister)
	case "attribution":
		return withApp(ctx, args, cmdAttribution)
	case "export":
		return withApp(ctx, args, cmdExport)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("commande inconnue %q", command)
	}
}

// withApp loads configuration, resolves the requested profile and builds the
// API client before handing control to the subcommand.
func withApp(ctx context.Context, args []string, fn func(ctx context.Context, a *app, args []string) error) error {
	profile := ""
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		if args[i] == "-profil" && i+1 < len(args) {
			profile = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}

	/**********************************************
	 * configuration: profile file, then env
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	path, err := config.DefaultProfilePath()
	if err == nil {
		profiles, err := config.LoadProfiles(path)
		if err != nil {
			return err
		}
		if p, err := profiles.Lookup(profile); err == nil {
			cfg.ApplyProfile(p)
		} else if profile != "" {
			return err
		}
	}

	if cfg.API.BaseURL == "" || cfg.API.Tenant == "" {
		return fmt.Errorf("aucune configuration API: renseignez PFM_API_BASE_URL et PFM_API_TENANT ou un profil")
	}

	/**********************************************
	 * API client
	 **********************************************/
	c, err := client.New(client.Options{
		BaseURL: cfg.API.BaseURL,
		Tenant:  cfg.API.Tenant,
		Token:   cfg.API.Token,
		Timeout: time.Duration(cfg.API.Timeout) * time.Second,
	})
	if err != nil {
		return err
	}
	if c.TokenExpired(time.Now()) {
		slog.Warn("le jeton d'accès est expiré, les requêtes seront probablement refusées")
	}

	validate, trans, err := utils.NewValidator()
	if err != nil {
		return err
	}

	return fn(ctx, &app{cfg: cfg, client: c, validate: validate, trans: trans}, rest)
}
