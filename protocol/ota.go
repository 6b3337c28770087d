// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package protocol

import (
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/journal"
)

// OtaForkKind distinguishes a backward-compatible upgrade from one that
// requires a coordinated barrier.
type OtaForkKind uint8

const (
	SoftFork OtaForkKind = iota
	HardFork
)

// OtaProposal is a coordinator's proposed upgrade.
type OtaProposal struct {
	Version    string
	Kind       OtaForkKind
	Checksum   ids.Hash32
	EpochFence uint64
}

// Readiness records one device's reply to an OtaProposal.
func Readiness(device ids.DeviceId, ready bool, version string) journal.OtaReadiness {
	return journal.OtaReadiness{Version: version, Device: device, Ready: ready}
}

// CanActivate reports whether proposal may commit given how many devices
// replied ready out of total. SoftFork activates as
// soon as any device is ready (best-effort, non-gating); HardFork requires
// an M-of-N quorum, since "no device applies the new protocol until the
// third commits or the proposal times out" while old-protocol ops keep
// merging in the interim.
func CanActivate(proposal OtaProposal, readyCount, totalDevices, threshold int) bool {
	switch proposal.Kind {
	case SoftFork:
		return readyCount >= 1
	case HardFork:
		return readyCount >= threshold
	default:
		return false
	}
}

// CommitActivation produces the terminal activation fact once CanActivate
// holds; proposal.EpochFence becomes a barrier for all subsequent
// mutations.
func CommitActivation(proposal OtaProposal) journal.OtaActivationCommitted {
	return journal.OtaActivationCommitted{Version: proposal.Version, Epoch: proposal.EpochFence}
}
