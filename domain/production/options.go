package production

// Option configures ComputeSummaries.
type Option func(*config)

type config struct {
	TopN int
}

// WithTopN sets the size of the top products by value ranking.
// Values below 1 keep the default.
func WithTopN(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.TopN = n
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{TopN: DefaultTopN}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
