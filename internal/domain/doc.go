// Package domain defines the core business entities of the application:
// decks, cards, per-card scheduling state, review events, study sessions,
// and daily study goals. Entities validate themselves; scheduling math
// lives in the sm2 sub-package and aggregation in internal/stats.
package domain
