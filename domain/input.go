package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"anonchat/errors"
)

var validate = validator.New()

// RenameInput is a requested nickname change.
type RenameInput struct {
	Name string `validate:"required,max=15"`
}

func (i RenameInput) Validate() error {
	if err := validate.Struct(i); err != nil {
		return errors.ErrNameTooLong
	}
	return nil
}

// PollInput is a parsed poll composition: first line the question, remaining
// non-empty lines the options.
type PollInput struct {
	Question string   `validate:"required"`
	Options  []string `validate:"min=1,dive,required"`
}

func (i PollInput) Validate() error {
	if err := validate.Struct(i); err != nil {
		return errors.ErrNoOptions
	}
	return nil
}

// ParsePollInput splits a multi-line poll body, dropping blank option lines.
func ParsePollInput(body string) (PollInput, error) {
	lines := strings.Split(strings.TrimSpace(body), "\n")
	input := PollInput{Question: strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		if opt := strings.TrimSpace(line); opt != "" {
			input.Options = append(input.Options, opt)
		}
	}
	if err := input.Validate(); err != nil {
		return PollInput{}, err
	}
	return input, nil
}

// ReportInput is a /report invocation before code resolution.
type ReportInput struct {
	Code   string `validate:"required"`
	Reason string `validate:"required"`
}

func (i ReportInput) Validate() error {
	return validate.Struct(i)
}
