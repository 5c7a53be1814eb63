package ui

import (
	"promptmap/internal/domain"
	"promptmap/internal/prompt"
	"promptmap/internal/services"
)

type scanResultMsg struct {
	result domain.ScanResult
	err    error
}

type scanProgressMsg struct {
	progress services.ScanProgress
}

type assembleResultMsg struct {
	result prompt.Result
	err    error
}

type assembleProgressMsg struct {
	progress prompt.Progress
	open     bool
}

type copyResultMsg struct {
	result prompt.Result
	err    error
}
