package export

// Dataset defines tabular report content handed to the renderers. Rows are
// keyed by header name so renderers control column order.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}
