// Copyright (c) 2026 Ogresync Contributors
// SPDX-License-Identifier: MIT

// Package contentfilter implements the single "meaningful file" predicate
// shared by the Backup Manager and the Repository Inspector, replacing the
// two slightly different "has content" / "worth backing up" filters each
// used to apply on its own.
package contentfilter
