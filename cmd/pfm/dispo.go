package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/profiremanager/pfm-cli/internal/domain"
	"github.com/profiremanager/pfm-cli/internal/recurrence"
	"github.com/profiremanager/pfm-cli/internal/submit"
	"github.com/profiremanager/pfm-cli/internal/utils"
)

// recurrenceFlags collects the flags shared by generer and soumettre.
type recurrenceFlags struct {
	debut      string
	fin        string
	typ        string
	jours      string
	frequence  string
	intervalle int
}

func (rf *recurrenceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&rf.debut, "debut", "", "date de début (YYYY-MM-DD)")
	fs.StringVar(&rf.fin, "fin", "", "date de fin (YYYY-MM-DD)")
	fs.StringVar(&rf.typ, "type", domain.TypeHebdomadaire, "type de récurrence (hebdomadaire, bihebdomadaire, mensuelle, annuelle, personnalisee)")
	fs.StringVar(&rf.jours, "jours", "", "jours de semaine, séparés par des virgules (monday..sunday)")
	fs.StringVar(&rf.frequence, "frequence", "", "unité de l'intervalle personnalisé (jours, semaines, mois, ans)")
	fs.IntVar(&rf.intervalle, "intervalle", 0, "intervalle personnalisé")
}

// expand validates the flags and runs the enumerator. Validation failures
// never reach the network.
func (rf *recurrenceFlags) expand(a *app) (recurrence.Expansion, domain.Date, domain.Date, error) {
	var zero recurrence.Expansion

	debut, err := domain.ParseDate(rf.debut)
	if err != nil {
		return zero, domain.Date{}, domain.Date{}, err
	}
	fin, err := domain.ParseDate(rf.fin)
	if err != nil {
		return zero, domain.Date{}, domain.Date{}, err
	}
	if err := utils.ValidatePlage(debut, fin); err != nil {
		return zero, domain.Date{}, domain.Date{}, err
	}

	cfg := domain.RuleConfig{
		Type:       rf.typ,
		Frequence:  rf.frequence,
		Intervalle: rf.intervalle,
	}
	if rf.jours != "" {
		cfg.JoursSemaine = strings.Split(rf.jours, ",")
	}
	if a != nil {
		if err := a.validate.Struct(cfg); err != nil {
			return zero, domain.Date{}, domain.Date{}, fmt.Errorf("%s", utils.FirstError(err, a.trans))
		}
	}
	rule, err := cfg.Rule()
	if err != nil {
		return zero, domain.Date{}, domain.Date{}, err
	}

	exp, err := recurrence.Expand(rule, debut, fin)
	if err != nil {
		return zero, domain.Date{}, domain.Date{}, err
	}
	return exp, debut, fin, nil
}

// cmdGenerer previews the dates a recurrence expands to. It needs no API
// access, so it runs without an app.
func cmdGenerer(args []string) error {
	fs := flag.NewFlagSet("generer", flag.ContinueOnError)
	rf := &recurrenceFlags{}
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	exp, _, _, err := rf.expand(nil)
	if err != nil {
		return err
	}

	for _, d := range exp.Dates {
		fmt.Printf("%s (%s)\n", d, frenchWeekday(d))
	}
	fmt.Printf("%d date(s)\n", len(exp.Dates))
	if exp.Truncated {
		fmt.Fprintln(os.Stderr, "attention: plage trop longue, liste tronquée")
	}
	return nil
}

func cmdSoumettre(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("soumettre", flag.ContinueOnError)
	rf := &recurrenceFlags{}
	rf.register(fs)
	userID := fs.Int64("user", 0, "identifiant de l'employé")
	statut := fs.String("statut", string(domain.StatutDisponible), "disponible ou indisponible")
	typeGarde := fs.Int64("type-garde", 0, "identifiant du type de garde (0 = tous)")
	heureDebut := fs.String("heure-debut", "", "heure de début HH:MM")
	heureFin := fs.String("heure-fin", "", "heure de fin HH:MM")
	remplacer := fs.Bool("remplacer", false, "remplacer automatiquement les entrées en conflit")
	ignorer := fs.Bool("ignorer", false, "ignorer automatiquement les entrées en conflit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == 0 {
		return fmt.Errorf("-user est requis")
	}
	if *remplacer && *ignorer {
		return fmt.Errorf("-remplacer et -ignorer sont exclusifs")
	}
	if err := utils.ValidateHeures(*heureDebut, *heureFin); err != nil {
		return err
	}

	exp, _, _, err := rf.expand(a)
	if err != nil {
		return err
	}
	if len(exp.Dates) == 0 {
		fmt.Println("aucune date à enregistrer")
		return nil
	}
	if exp.Truncated {
		fmt.Fprintln(os.Stderr, "attention: plage trop longue, liste tronquée")
	}

	// A selected shift type lends its time bounds to the entries.
	var typeGardeID *int64
	hd, hf := *heureDebut, *heureFin
	if *typeGarde != 0 {
		typeGardeID = typeGarde
		if hd == "" {
			types, err := a.client.ListTypesGarde(ctx)
			if err != nil {
				return err
			}
			for _, tg := range types {
				if tg.ID == *typeGarde {
					hd, hf = tg.HeureDebut, tg.HeureFin
					break
				}
			}
		}
	}

	entries := make([]domain.Availability, 0, len(exp.Dates))
	for _, d := range exp.Dates {
		entry := domain.Availability{
			UserID:      *userID,
			Date:        d,
			TypeGardeID: typeGardeID,
			HeureDebut:  hd,
			HeureFin:    hf,
			Statut:      domain.Statut(*statut),
			Origine:     domain.OrigineRecurrence,
		}
		if err := a.validate.Struct(entry); err != nil {
			return fmt.Errorf("%s", utils.FirstError(err, a.trans))
		}
		entries = append(entries, entry)
	}

	s := submit.New(a.client, submit.WithProgress(func(p submit.Progress) {
		fmt.Printf("\r%s", p)
	}))

	report, err := s.Run(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Println()

	if len(report.Conflicts) > 0 {
		decide := promptDecision
		if *remplacer {
			decide = func(domain.Conflict) submit.Decision { return submit.DecisionReplace }
		}
		if *ignorer {
			decide = func(domain.Conflict) submit.Decision { return submit.DecisionSkip }
		}

		resolved, err := s.Resolve(ctx, report.Conflicts, decide)
		if err != nil {
			return err
		}
		fmt.Printf("conflits: %d remplacé(s), %d ignoré(s), %d erreur(s)\n",
			resolved.Replaced, resolved.Skipped, resolved.Errors)
	}

	// Always re-fetch the authoritative list after mutations.
	fresh, err := a.client.ListDisponibilites(ctx, *userID)
	if err != nil {
		return err
	}
	fmt.Printf("%d créée(s), %d erreur(s), %d conflit(s); %d entrée(s) au total\n",
		report.Created, report.Errors, len(report.Conflicts), len(fresh))
	return nil
}

// promptDecision asks the user to resolve one conflict on stdin.
func promptDecision(conflict domain.Conflict) submit.Decision {
	fmt.Printf("conflit le %s (%s):\n", conflict.Attempted.Date, conflict.Attempted.Statut)
	for _, existing := range conflict.Existing {
		fmt.Printf("  existant: #%d %s %s %s-%s\n",
			existing.ID, existing.Date, existing.Statut, existing.HeureDebut, existing.HeureFin)
	}
	fmt.Print("remplacer l'existant ? [r = remplacer / i = ignorer] ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return submit.DecisionSkip
	}
	if strings.TrimSpace(strings.ToLower(answer)) == "r" {
		return submit.DecisionReplace
	}
	return submit.DecisionSkip
}

func cmdLister(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("lister", flag.ContinueOnError)
	userID := fs.Int64("user", 0, "identifiant de l'employé")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *userID == 0 {
		return fmt.Errorf("-user est requis")
	}

	entries, err := a.client.ListDisponibilites(ctx, *userID)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	for _, entry := range entries {
		scope := "tous types"
		if entry.TypeGardeID != nil {
			scope = fmt.Sprintf("type %d", *entry.TypeGardeID)
		}
		hours := ""
		if entry.HeureDebut != "" {
			hours = fmt.Sprintf(" %s-%s", entry.HeureDebut, entry.HeureFin)
		}
		fmt.Printf("#%-5d %s  %-12s %s%s (%s)\n",
			entry.ID, entry.Date, entry.Statut, scope, hours, entry.Origine)
	}
	fmt.Printf("%d entrée(s)\n", len(entries))
	return nil
}

var frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

func frenchWeekday(d domain.Date) string {
	return frenchWeekdays[int(d.Weekday())]
}
