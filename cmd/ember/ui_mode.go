package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the bubbletea progress view for long-running commands.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI resolves auto: a terminal on stdout and no CI marker.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout) && os.Getenv("CI") == ""
}
