package mock

import "github.com/fwojciec/pagemig"

var _ pagemig.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagemig.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
