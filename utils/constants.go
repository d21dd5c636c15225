// File: utils/constants.go
package utils

import "time"

// WebhookLockPrefix is the prefix used for per-payment reconciliation lock keys.
const WebhookLockPrefix = "lock:payment:"

// HealthCheckInterval is how often the health monitor pings its dependencies.
const HealthCheckInterval = 60 * time.Second
