// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"

	"github.com/autofy/autofy/pkg/actions/aiprocess"
	"github.com/autofy/autofy/pkg/actions/chatbroadcast"
	"github.com/autofy/autofy/pkg/actions/mailreply"
	"github.com/autofy/autofy/pkg/actions/notepage"
	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/registry"
	"github.com/autofy/autofy/pkg/triggers/mailbox"
)

func registerNativeActions(reg *registry.Registry, deps protocol.Dependencies) {
	reg.RegisterAction(aiprocess.NewActionFactory(deps))
	reg.RegisterAction(notepage.NewActionFactory(deps))
	reg.RegisterAction(chatbroadcast.NewActionFactory(deps))
	reg.RegisterAction(mailreply.NewActionFactory(deps))
}

func registerNativeTriggers(reg *registry.Registry, deps protocol.Dependencies) {
	reg.RegisterTrigger(mailbox.NewTriggerFactory(deps))
}

// NewRegistry builds a registry with every native adapter registered.
func NewRegistry(logger *slog.Logger, deps protocol.Dependencies) *registry.Registry {
	reg := registry.NewRegistry(logger)

	registerNativeTriggers(reg, deps)
	registerNativeActions(reg, deps)

	return reg
}
