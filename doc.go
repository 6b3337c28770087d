// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

/*
Package aura is a decentralized, offline-first identity and collaboration
substrate for multi-device users. Each principal is backed by a quorum of
devices and guardians; state evolves through cryptographically attested
operations that converge under CRDT semantics.

# Architecture

The module is organized into subpackages, leaves first:

  - ids/         identifiers and the 32-byte content hash
  - auratime/    the four time domains (physical, logical, order, range)
  - auracrypto/  Blake3, HKDF, AEAD, Merkle, FROST Ed25519 threshold signing
  - effects/     abstract effect interfaces the core consumes (storage,
    network, time, random, crypto, console), with in-memory
    fakes in effects/effecttest
  - journal/     the append-only, content-addressed fact log and its
    deterministic reduction to derived views
  - tree/        the left-balanced commitment tree of devices/guardians,
    reduced from the OR-set of attested operations
  - ceremony/    prestate-bound threshold ceremonies with the provisional →
    coordinator-safe → consensus-finalized lifecycle
  - consensus/   the pure share-proposal agreement state machine
  - guard/       the CapGuard → FlowGuard → LeakGuard → JournalCoupler →
    Transport authorization chain
  - antientropy/ Bloom-digest peer reconciliation and broadcast
  - amp/         the per-channel ratcheted messaging protocol
  - protocol/    invitation, recovery, OTA, and snapshot orchestration
  - runtime/     configuration, metrics, task registry, and the node
    composition root
  - auratest/    deterministic cross-package test fixtures

Data flows upward through that list: crypto feeds effects, effects feed the
journal, the journal feeds the tree, and so on up to the runtime. Control
flows downward: an intent enters the guard chain, authorizes, emits facts
into the journal, triggers reduction, and produces state consumed by
embedding applications.

Concrete transports, secure-storage backends, and user interfaces live
outside this module and plug in through the effects interfaces.
*/
package aura
