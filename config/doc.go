// Copyright 2026 The Meetwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for meetwire commands.
//
// Configuration is loaded from a single YAML file passed via --config.
// There are no fallbacks or automatic discovery; the file is the single
// source of truth. The only expansion performed is ${VAR} and
// ${VAR:-default} substitution in directory paths for portability.
package config
