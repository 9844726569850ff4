package sysprop

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Property names the host source can answer.
const (
	PropVersionRelease = "ro.build.version.release"
	PropProductModel   = "ro.product.model"
	PropDisplayID      = "ro.build.display.id"
	PropCPUABI         = "ro.product.cpu.abi"
)

// hostInfoFunc is swapped in tests.
var hostInfoFunc = host.InfoWithContext

// HostSource derives build properties from the host operating system for
// machines that have no build.prop.
func HostSource(ctx context.Context, logger *slog.Logger) Map {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	info, err := hostInfoFunc(ctx)
	if err != nil || info == nil {
		logger.Debug("host info unavailable", "error", err)
		return Map{}
	}
	return hostProps(info)
}

// hostProps maps gopsutil host information onto property names. This is
// a pure function suitable for unit testing.
func hostProps(info *host.InfoStat) Map {
	props := Map{}
	if info.PlatformVersion != "" {
		props[PropVersionRelease] = info.PlatformVersion
	}
	if info.Platform != "" {
		props[PropProductModel] = info.Platform
	}
	display := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if display != "" {
		props[PropDisplayID] = display
	}
	if info.KernelArch != "" {
		props[PropCPUABI] = info.KernelArch
	}
	return props
}
