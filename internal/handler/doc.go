// Package handler provides HTTP request handlers for the Crucible API.
//
// The handler package contains all HTTP endpoint implementations organized by domain.
// Each handler struct encapsulates the dependencies needed to serve requests for a
// specific feature area (queue, parties, instances, events).
//
// Handlers stay thin: they decode requests, call a service, and map errors.
// All matchmaking semantics live in the service layer.
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the services it needs
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
package handler
