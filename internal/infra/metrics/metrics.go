// Package metrics defines the bot's Prometheus metrics. Counters are
// registered with the default registry via promauto and exposed on the
// side HTTP server when metrics are enabled.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statusbot"

// UpdatesTotal counts inbound updates routed by the bot.
// Label:
//   - kind: "message", "command" or "callback"
var UpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Total number of inbound Telegram updates routed.",
	},
	[]string{"kind"},
)

// LookupsTotal counts status lookups.
// Label:
//   - result: "found" or "missing"
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of status lookups, by result.",
	},
	[]string{"result"},
)

// RegistryWritesTotal counts registry mutations performed by admins.
// Label:
//   - op: "add", "remove", "block" or "unblock"
var RegistryWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registry_writes_total",
		Help:      "Total number of registry write operations.",
	},
	[]string{"op"},
)

// BroadcastDeliveriesTotal counts per-recipient broadcast outcomes.
// Label:
//   - result: "sent" or "failed"
var BroadcastDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcast_deliveries_total",
		Help:      "Total number of broadcast deliveries, by result.",
	},
	[]string{"result"},
)
