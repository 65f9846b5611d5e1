package utils

import (
	"fmt"
	"time"

	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"

	"github.com/profiremanager/pfm-cli/internal/domain"
)

// NewValidator builds the shared validator with French translations and the
// custom "clock" rule for HH:MM fields.
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	frLocale := fr.New()
	uni := ut.New(frLocale, frLocale)
	trans, _ := uni.GetTranslator("fr")
	if err := fr_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}

	if err := validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, nil, err
	}

	return validate, trans, nil
}

// FirstError reduces a validation failure to its first translated message,
// the one worth showing the user.
func FirstError(err error, trans ut.Translator) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	return validationErrors[0].Translate(trans)
}

// ValidatePlage rejects an inverted date range before any network call is
// made.
func ValidatePlage(debut, fin domain.Date) error {
	if debut.IsZero() || fin.IsZero() {
		return fmt.Errorf("les dates de début et de fin sont requises")
	}
	if debut.After(fin) {
		return fmt.Errorf("la date de début doit précéder la date de fin")
	}
	return nil
}

// ValidateHeures checks the optional time-of-day bounds of an entry.
func ValidateHeures(heureDebut, heureFin string) error {
	if heureDebut == "" && heureFin == "" {
		return nil
	}
	debut, err := time.Parse("15:04", heureDebut)
	if err != nil {
		return fmt.Errorf("heure de début invalide: %q", heureDebut)
	}
	fin, err := time.Parse("15:04", heureFin)
	if err != nil {
		return fmt.Errorf("heure de fin invalide: %q", heureFin)
	}
	if !fin.After(debut) {
		return fmt.Errorf("l'heure de fin doit être après l'heure de début")
	}
	return nil
}
