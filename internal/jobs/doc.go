// Package jobs implements background job processing for the Crucible API.
//
// The jobs package contains scheduled tasks that run independently of HTTP
// request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - QueueSweeper: Expired queue entry cleanup plus a periodic
//     matchmaking pass per content type
//
// # Lifecycle
//
// Jobs expose Start/Stop and run their loop on their own goroutine:
//
//	sweeper := jobs.NewQueueSweeper(store, matcher, interval)
//	sweeper.Start()
//	defer sweeper.Stop()
//
// # Error Handling
//
// Jobs log errors but don't crash the application.
package jobs
