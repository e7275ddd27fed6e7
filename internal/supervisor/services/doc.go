// Stylist - Personalization, Recommendation and Outfit Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stylist

/*
Package services wraps the long-lived components of the process as
suture.Service implementations.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
  - ConsumerService: runs an interaction event consumer until canceled
  - RefreshService: refreshes the trend table and prunes engine caches on
    an interval

Each service returns ctx.Err() when its context is canceled and a wrapped
error on failure, letting the supervisor decide whether to restart it.
*/
package services
