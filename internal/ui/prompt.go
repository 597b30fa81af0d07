package ui

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question. A "no" answer or Ctrl-D is not an error.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrEOF) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Choose shows a selection list and returns the picked index.
func Choose(label string, items []string) (int, error) {
	prompt := promptui.Select{
		Label: label,
		Items: items,
	}

	idx, _, err := prompt.Run()
	return idx, err
}
