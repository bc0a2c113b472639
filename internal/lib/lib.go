// Package lib groups integrations that do not belong to a single layer.
//
// Subpackages:
//   - email: Resend client and the embedded HTML email templates
//   - tasks: Redis-backed background tasks (asynq), such as the
//     notification sent when a job is posted
package lib
