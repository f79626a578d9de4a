//go:build windows
// +build windows

// File: cmd/lpelctl/reload_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows has no SIGHUP; config reload is triggered only through future
// remote-control surfaces, not signals.

package main

import "github.com/momentics/lpel/api"

func installSighupHandler(ctl api.Control) {}
