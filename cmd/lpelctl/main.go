// File: cmd/lpelctl/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// lpelctl builds a scheduler and a small demo pipeline of streams, drives a
// handful of items through it, and prints the resulting monitoring stats.
// SIGHUP triggers the control registry's configured reload handlers.

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/momentics/lpel/api"
	"github.com/momentics/lpel/control"
	"github.com/momentics/lpel/stream"
	"github.com/momentics/lpel/task"
)

func main() {
	workers := flag.Int("workers", 2, "CPU-pinned worker threads for ancillary work")
	baseCPU := flag.Int("base-cpu", -1, "first logical CPU to pin workers to, -1 to leave unpinned")
	capacity := flag.Int("capacity", 8, "demo stream buffer capacity")
	items := flag.Int("items", 20, "number of items to push through the demo pipeline")
	historyDepth := flag.Int("history-depth", 16, "events retained per stream in the monitoring history")
	flag.Parse()

	reg := control.NewRegistry(*historyDepth)
	reg.OnReload(func() {
		fmt.Println("lpelctl: configuration reloaded")
	})

	sched := task.NewScheduler(*workers, *baseCPU)
	defer sched.Close()
	stream.SetScheduler(sched)

	installSighupHandler(reg)

	s := stream.Create(*capacity)
	defer stream.Destroy(s)

	done := make(chan struct{})
	sched.Spawn(reg, func(self api.Task) {
		rsd := stream.Open(s, api.ModeRead, self)
		defer stream.Close(rsd, false)
		for i := 0; i < *items; i++ {
			got := stream.Read(rsd)
			fmt.Printf("lpelctl: consumed %v\n", got)
		}
		close(done)
	})

	sched.Spawn(reg, func(self api.Task) {
		wsd := stream.Open(s, api.ModeWrite, self)
		defer stream.Close(wsd, false)
		for i := 0; i < *items; i++ {
			stream.Write(wsd, i)
		}
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fmt.Fprintln(os.Stderr, "lpelctl: demo pipeline timed out")
		os.Exit(1)
	}

	fmt.Println("lpelctl: stats:")
	for k, v := range reg.Stats() {
		fmt.Printf("  %s = %v\n", k, v)
	}
	fmt.Println("lpelctl: history for demo stream:")
	for _, ev := range reg.History(s.UID()) {
		fmt.Printf("  %s\n", ev.Kind)
	}
}

