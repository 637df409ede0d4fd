// Package prompt holds the interactive terminal prompts
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/alumnet-dev/alumnet/internal/models"
	"github.com/alumnet-dev/alumnet/internal/router"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("cancelled")

func wrap(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return err
}

// Text asks for one line of input. A non-nil check is run on every keystroke.
func Text(label, def string, check func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  check,
	}
	v, err := p.Run()
	if err != nil {
		return "", wrap(err)
	}
	return strings.TrimSpace(v), nil
}

// Secret asks for a masked value
func Secret(label string, check func(string) error) (string, error) {
	p := promptui.Prompt{Label: label, Mask: '*', Validate: check}
	v, err := p.Run()
	if err != nil {
		return "", wrap(err)
	}
	return v, nil
}

// Int asks for a whole number
func Int(label string, def int) (int, error) {
	d := ""
	if def != 0 {
		d = strconv.Itoa(def)
	}
	v, err := Text(label, d, func(s string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return errors.New("enter a number")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

// Confirm asks a yes/no question
func Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	_, err := p.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, wrap(err)
	}
	return true, nil
}

// SelectAlumni shows an interactive list of accounts
func SelectAlumni(label string, list []models.Alumni) (*models.Alumni, error) {
	if len(list) == 0 {
		return nil, errors.New("nothing to select")
	}

	type option struct {
		Label  string
		Alumni *models.Alumni
	}

	options := make([]option, len(list))
	for i := range list {
		a := &list[i]
		options[i] = option{
			Label:  fmt.Sprintf("%s <%s> %s %d", a.FullName(), a.Email, a.Department, a.GraduationYear),
			Alumni: a,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	p := promptui.Select{
		Label:     label,
		Items:     options,
		Templates: templates,
		Size:      10,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(options[index].Label), strings.ToLower(input))
		},
	}

	index, _, err := p.Run()
	if err != nil {
		return nil, wrap(err)
	}
	return options[index].Alumni, nil
}

// Exit is the pseudo route offered by SelectRoute to leave the shell
const Exit = "exit"

// SelectRoute lets the user pick a page to visit
func SelectRoute(current string, routes []router.Route) (string, error) {
	type option struct {
		Label string
		Path  string
	}

	options := make([]option, 0, len(routes)+1)
	for _, r := range routes {
		label := fmt.Sprintf("%-18s %s", r.Title, r.Path)
		if r.Path == current {
			label += " (current)"
		}
		options = append(options, option{Label: label, Path: r.Path})
	}
	options = append(options, option{Label: "Quit", Path: Exit})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	p := promptui.Select{
		Label:     "Go to",
		Items:     options,
		Templates: templates,
		Size:      12,
	}

	index, _, err := p.Run()
	if err != nil {
		return "", wrap(err)
	}
	return options[index].Path, nil
}
