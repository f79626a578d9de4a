//go:build linux || darwin
// +build linux darwin

// File: cmd/lpelctl/reload_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SIGHUP triggers a config reload on platforms that define it.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/momentics/lpel/api"
)

func installSighupHandler(ctl api.Control) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	go func() {
		for range ch {
			ctl.SetConfig(ctl.GetConfig())
		}
	}()
}
