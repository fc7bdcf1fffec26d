// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package reasoningengine discovers agents deployed to Vertex AI Agent
// Engine (reasoning engines) in one project location.
//
// The service wraps the AI Platform v1beta1 ReasoningEngine API and
// converts engine resources into [types.DeployedAgent] records for the
// inventory's deployed-agent listing. It is read-only: deployment and
// lifecycle management stay with the cloud console and CI pipelines.
//
// # Usage
//
//	svc, err := reasoningengine.NewService(ctx, "my-project", "us-central1")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer svc.Close()
//
//	agents, err := svc.List(ctx)
//
// Authentication uses Application Default Credentials with the
// cloud-platform scope.
package reasoningengine
