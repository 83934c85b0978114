package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"

	"github.com/mustafa861/library/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// normalizeText trims surrounding space and NFC-normalizes s so composed and
// decomposed input store and match identically.
func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeKeyword NFC-normalizes a search keyword. Surrounding space is kept
// because it is part of the substring being matched.
func normalizeKeyword(s string) string {
	return norm.NFC.String(s)
}

func normalizeBook(b model.NewBook) model.NewBook {
	return model.NewBook{
		Title:    normalizeText(b.Title),
		Author:   normalizeText(b.Author),
		ISBN:     strings.TrimSpace(b.ISBN),
		Quantity: b.Quantity,
	}
}

func normalizeMember(m model.NewMember) model.NewMember {
	return model.NewMember{
		Name:  normalizeText(m.Name),
		Email: strings.TrimSpace(m.Email),
		Phone: strings.TrimSpace(m.Phone),
	}
}

// checkInput validates v against its struct tags.
func checkInput(op string, v any) error {
	if err := validate.Struct(v); err != nil {
		return &Error{Kind: KindInvalidInput, Op: op, Err: describeValidation(err)}
	}
	return nil
}

func describeValidation(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s %s", fe.Field(), validationMessage(fe)))
	}
	return errors.New(strings.Join(parts, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
