package ports

// BoardMetrics records card mutation outcomes
type BoardMetrics interface {
	CardMutation(operation, outcome string)
}
