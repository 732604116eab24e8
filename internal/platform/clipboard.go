// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package platform

import "github.com/atotto/clipboard"

// Clipboard writes text to the system clipboard. The Setup Wizard uses it
// to copy a freshly generated SSH public key so the user can paste it into
// the remote host's web UI.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

// NewSystemClipboard returns a Clipboard backed by the host clipboard.
func NewSystemClipboard() Clipboard { return systemClipboard{} }

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
