// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// NewLogger creates the command logger writing to w at level. When w is
// a terminal, entries are printed as bare messages for the operator.
// When it is piped or redirected (CI, scripts, tests), entries are JSON
// so they stay machine-parseable.
func NewLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if isTerminal(w) {
		logger.SetFormatter(messageFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

// messageFormatter prints only the message of each entry.
type messageFormatter struct{}

func (messageFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(entry.Message + "\n"), nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(file.Fd()))
}
