package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/profiremanager/pfm-cli/internal/client"
	"github.com/profiremanager/pfm-cli/internal/domain"
	"github.com/profiremanager/pfm-cli/internal/export"
	"github.com/profiremanager/pfm-cli/internal/utils"
)

func cmdAttribution(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("attribution", flag.ContinueOnError)
	semaine := fs.String("semaine", "", "lundi de la semaine à attribuer (YYYY-MM-DD)")
	reset := fs.Bool("reset", false, "réinitialiser les assignations générées avant de relancer")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := client.AttributionOptions{Reset: *reset}
	if *semaine != "" {
		d, err := domain.ParseDate(*semaine)
		if err != nil {
			return err
		}
		opts.Semaine = d
	}

	task, err := a.client.StartAttribution(ctx, opts)
	if err != nil {
		return err
	}
	fmt.Printf("attribution lancée (tâche %s)\n", task.TaskID)

	final, err := a.client.WatchAttribution(ctx, task.StreamURL, func(p domain.AttributionProgress) {
		fmt.Printf("\r%-50s %3.0f%% (%.0fs)", p.CurrentStep, p.ProgressPercentage, p.ElapsedTime)
	})
	fmt.Println()
	if err != nil {
		return err
	}

	if final.AssignationsCreees != nil {
		fmt.Printf("terminé: %d assignation(s) créée(s)\n", *final.AssignationsCreees)
	} else {
		fmt.Println("terminé")
	}
	return nil
}

func cmdExport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	userID := fs.Int64("user", 0, "identifiant de l'employé (disponibilités)")
	planning := fs.Bool("planning", false, "exporter le planning plutôt que les disponibilités")
	debut := fs.String("debut", "", "date de début (YYYY-MM-DD, planning)")
	fin := fs.String("fin", "", "date de fin (YYYY-MM-DD, planning)")
	output := fs.String("o", "", "fichier de sortie (.ics), stdout par défaut")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loc, err := time.LoadLocation(a.cfg.Export.Timezone)
	if err != nil {
		return fmt.Errorf("fuseau horaire invalide %q: %w", a.cfg.Export.Timezone, err)
	}

	types, err := a.client.ListTypesGarde(ctx)
	if err != nil {
		return err
	}

	var document string
	switch {
	case *planning:
		d, err := domain.ParseDate(*debut)
		if err != nil {
			return err
		}
		f, err := domain.ParseDate(*fin)
		if err != nil {
			return err
		}
		if err := utils.ValidatePlage(d, f); err != nil {
			return err
		}

		slots, err := a.client.ListAssignations(ctx, d, f)
		if err != nil {
			return err
		}
		document, err = export.Assignations(slots, types, loc)
		if err != nil {
			return err
		}
	default:
		if *userID == 0 {
			return fmt.Errorf("-user est requis pour exporter des disponibilités")
		}
		entries, err := a.client.ListDisponibilites(ctx, *userID)
		if err != nil {
			return err
		}
		document, err = export.Availabilities(entries, types, loc)
		if err != nil {
			return err
		}
	}

	if *output == "" {
		fmt.Print(document)
		return nil
	}
	if err := os.WriteFile(*output, []byte(document), 0o644); err != nil {
		return err
	}
	fmt.Printf("exporté vers %s\n", *output)
	return nil
}
