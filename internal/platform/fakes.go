// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

package platform

import "context"

// FakeEditorHandle is a test double whose WaitClosed returns immediately.
type FakeEditorHandle struct {
	Err error
}

func (f *FakeEditorHandle) WaitClosed(ctx context.Context) error { return f.Err }

// FakeEditorLauncher is a test double EditorLauncher that never spawns a
// real process.
type FakeEditorLauncher struct {
	LaunchErr    error
	LaunchedWith []string // editorPath, vaultPath pairs flattened in call order
}

func (f *FakeEditorLauncher) Launch(ctx context.Context, editorPath, vaultPath string) (EditorHandle, error) {
	f.LaunchedWith = append(f.LaunchedWith, editorPath, vaultPath)
	if f.LaunchErr != nil {
		return nil, f.LaunchErr
	}
	return &FakeEditorHandle{}, nil
}

// FakeClipboard records what was written instead of touching the system
// clipboard.
type FakeClipboard struct {
	Written string
	Err     error
}

func (f *FakeClipboard) WriteAll(text string) error {
	f.Written = text
	return f.Err
}

// FakeBrowser records the URL instead of spawning a browser.
type FakeBrowser struct {
	Opened string
	Err    error
}

func (f *FakeBrowser) Open(url string) error {
	f.Opened = url
	return f.Err
}
