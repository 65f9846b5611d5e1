package domain

import (
	"errors"
	"fmt"
	"time"
)

// Recurrence type names as they appear on the wire.
const (
	TypeHebdomadaire   = "hebdomadaire"
	TypeBihebdomadaire = "bihebdomadaire"
	TypeMensuelle      = "mensuelle"
	TypeAnnuelle       = "annuelle"
	TypePersonnalisee  = "personnalisee"
)

// Unit is the interval unit of a custom recurrence.
type Unit string

const (
	UnitJours    Unit = "jours"
	UnitSemaines Unit = "semaines"
	UnitMois     Unit = "mois"
	UnitAns      Unit = "ans"
)

// Rule is a recurrence rule. It is a closed set: Weekly, Biweekly, Monthly,
// Yearly and Custom. Modeling each variant as its own type keeps invalid
// field combinations unrepresentable (a monthly rule cannot carry a weekday
// set, a weekly rule cannot carry an interval).
type Rule interface {
	// TypeName returns the wire name of the rule variant.
	TypeName() string
}

// Weekly repeats on the given weekdays every week. An empty day set means
// every day in range qualifies.
type Weekly struct {
	Days []time.Weekday
}

// Biweekly repeats on the given weekdays every other ISO week, counted from
// the start date's ISO week. An empty day set means every day of the
// qualifying weeks.
type Biweekly struct {
	Days []time.Weekday
}

type Monthly struct{}

type Yearly struct{}

// Custom carries an explicit interval and unit.
type Custom struct {
	Interval int
	Unit     Unit
}

func (Weekly) TypeName() string   { return TypeHebdomadaire }
func (Biweekly) TypeName() string { return TypeBihebdomadaire }
func (Monthly) TypeName() string  { return TypeMensuelle }
func (Yearly) TypeName() string   { return TypeAnnuelle }
func (Custom) TypeName() string   { return TypePersonnalisee }

var ErrInvalidInterval = errors.New("recurrence interval must be at least 1")

// RuleConfig is the flat wire form of a recurrence configuration, as the
// REST API exchanges it. Only some fields are meaningful for each type;
// Rule converts it into the matching variant and rejects invalid
// combinations.
type RuleConfig struct {
	Type         string   `json:"recurrence_type" validate:"required,oneof=hebdomadaire bihebdomadaire mensuelle annuelle personnalisee"`
	JoursSemaine []string `json:"jours_semaine,omitempty" validate:"omitempty,dive,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	Frequence    string   `json:"recurrence_frequence,omitempty" validate:"omitempty,oneof=jours semaines mois ans"`
	Intervalle   int      `json:"recurrence_intervalle,omitempty"`
}

// Rule converts the wire form into a typed rule.
func (c RuleConfig) Rule() (Rule, error) {
	switch c.Type {
	case TypeHebdomadaire, TypeBihebdomadaire:
		days, err := ParseWeekdays(c.JoursSemaine)
		if err != nil {
			return nil, err
		}
		if c.Type == TypeHebdomadaire {
			return Weekly{Days: days}, nil
		}
		return Biweekly{Days: days}, nil
	case TypeMensuelle:
		return Monthly{}, nil
	case TypeAnnuelle:
		return Yearly{}, nil
	case TypePersonnalisee:
		if c.Intervalle < 1 {
			return nil, ErrInvalidInterval
		}
		switch Unit(c.Frequence) {
		case UnitJours, UnitSemaines, UnitMois, UnitAns:
			return Custom{Interval: c.Intervalle, Unit: Unit(c.Frequence)}, nil
		default:
			return nil, fmt.Errorf("unknown recurrence unit %q", c.Frequence)
		}
	default:
		return nil, fmt.Errorf("unknown recurrence type %q", c.Type)
	}
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// ParseWeekdays maps lowercase English weekday names, the representation the
// API uses, to time.Weekday values. Order is preserved, duplicates are kept.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	if len(names) == 0 {
		return nil, nil
	}
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}
