package domain

import (
	"errors"
	"fmt"
)

var ErrIncompleteResponse = errors.New("response is missing required fields")

func missingField(name string) error {
	return fmt.Errorf("%w: %q", ErrIncompleteResponse, name)
}
