package expand

import (
	"github.com/delegen/delegen/pkg/expander"
)

// Generate runs the delegation expansion stage with the provided options.
func Generate(opts ...expander.Option) error {
	e, err := expander.New(opts...)
	if err != nil {
		return err
	}
	return e.Expand()
}
