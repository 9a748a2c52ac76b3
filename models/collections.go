// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Entity collections managed by HayaHub. Every collection is synchronized
// independently of the others.
const (
	CollectionExpenses      = "expenses"
	CollectionEvents        = "events"
	CollectionProjects      = "projects"
	CollectionTasks         = "tasks"
	CollectionQuotes        = "quotes"
	CollectionSubscriptions = "subscriptions"
	CollectionWishlist      = "wishlist"
)

// Collections lists every known collection in a stable order.
var Collections = []string{
	CollectionExpenses,
	CollectionEvents,
	CollectionProjects,
	CollectionTasks,
	CollectionQuotes,
	CollectionSubscriptions,
	CollectionWishlist,
}

// IsKnownCollection reports whether name is one of [Collections].
func IsKnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}
