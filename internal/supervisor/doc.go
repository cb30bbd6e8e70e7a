// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor runs Marquee's long-lived services under suture v4.

	marquee
	├── maintenance-layer
	│   └── JanitorService (TMDB details cache)
	└── api-layer
	    └── HTTPServerService

The recommendation engine itself is not supervised. It is built or loaded
once before the tree starts and is immutable afterwards; a failure there
ends the process.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMaintenanceService(services.NewJanitorService("details-cache-janitor", client, interval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, shutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Restart policy

Each failure adds to a counter that decays over FailureDecay seconds. Once the
counter passes FailureThreshold the supervisor waits FailureBackoff before the
next restart. Layers count failures independently, so a crashing janitor
never delays the HTTP server.

A service that returns ctx.Err() after cancellation is treated as stopped. A
service that misses ShutdownTimeout is listed by UnstoppedServiceReport.
*/
package supervisor
