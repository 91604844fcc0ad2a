package api

import "fmt"

// wrap prefixes err with the handler op.
func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
