// Package prompt asks operators for setting details on the terminal.
package prompt

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/hubkit/hubctl/internal/settings"
)

var _ settings.PromptSource = (*Survey)(nil)

// Survey is a settings.PromptSource backed by interactive terminal prompts.
type Survey struct {
	opts []survey.AskOpt
}

// NewSurvey creates a Survey. opts are passed to every question, e.g.
// survey.WithStdio to read from something other than the process terminal.
func NewSurvey(opts ...survey.AskOpt) *Survey {
	return &Survey{opts: opts}
}

// Description asks for a setting description, offering suggested as the
// default answer.
func (s *Survey) Description(name, suggested string) (string, error) {
	return s.ask(&survey.Input{
		Message: fmt.Sprintf("[%s] `description`", name),
		Default: suggested,
		Help:    "Shown next to the setting in the hub UI",
	})
}

// Kind asks for a setting kind, offering suggested as the default answer.
func (s *Survey) Kind(name, suggested string) (string, error) {
	options := []string{
		settings.KindString,
		settings.KindPassword,
		settings.KindInteger,
		settings.KindBoolean,
		settings.KindDate,
		settings.KindOptions,
		"object",
		"array",
	}
	if !contains(options, suggested) {
		options = append([]string{suggested}, options...)
	}

	return s.ask(&survey.Select{
		Message: fmt.Sprintf("[%s] `kind`", name),
		Options: options,
		Default: suggested,
	})
}

func (s *Survey) ask(p survey.Prompt) (string, error) {
	var answer string
	if err := survey.AskOne(p, &answer, s.opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
