package annotate

import (
	"github.com/delegen/delegen/pkg/expander"
)

// Generate runs the trait annotation stage with the provided options.
func Generate(opts ...expander.Option) error {
	e, err := expander.New(opts...)
	if err != nil {
		return err
	}
	return e.Annotate()
}
