// Package sysinfo gathers the host facts shown by system-info and status:
// kernel, memory, CPU count, open-file limit, and free disk space in the
// working directory.
package sysinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sys/unix"
)

// RecommendedOpenFiles is the soft open-file limit the index builder wants.
// Native index builds raise their own limit to this value; the host report
// flags anything lower.
const RecommendedOpenFiles = 1048576

// Host captures the machine facts reported by system-info.
type Host struct {
	Hostname      string
	Platform      string
	Kernel        string
	CPUs          int
	MemoryTotal   uint64
	MemoryFree    uint64
	OpenFileLimit uint64
	DiskPath      string
	DiskTotal     uint64
	DiskFree      uint64
}

// Collect gathers host facts for the working directory dir. Probes that fail
// leave their fields zero so a partial report still renders.
func Collect(ctx context.Context, dir string) Host {
	facts := Host{DiskPath: dir}

	if info, err := host.InfoWithContext(ctx); err == nil {
		facts.Hostname = info.Hostname
		facts.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		facts.Kernel = strings.TrimSpace(info.OS + " " + info.KernelVersion + " " + info.KernelArch)
	}
	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		facts.CPUs = count
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		facts.MemoryTotal = vm.Total
		facts.MemoryFree = vm.Available
	}
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err == nil {
		facts.OpenFileLimit = limit.Cur
	}
	if usage, err := disk.UsageWithContext(ctx, dir); err == nil {
		facts.DiskTotal = usage.Total
		facts.DiskFree = usage.Free
	}

	return facts
}

// MemoryDetail renders total and available memory for display.
func (h Host) MemoryDetail() string {
	return fmt.Sprintf("%s total, %s available", humanize.IBytes(h.MemoryTotal), humanize.IBytes(h.MemoryFree))
}

// DiskDetail renders the free space on the filesystem holding the working
// directory.
func (h Host) DiskDetail() string {
	return fmt.Sprintf("%s free of %s", humanize.IBytes(h.DiskFree), humanize.IBytes(h.DiskTotal))
}

// OpenFilesOK reports whether the soft open-file limit meets the index
// builder's recommendation.
func (h Host) OpenFilesOK() bool {
	return h.OpenFileLimit >= RecommendedOpenFiles
}
