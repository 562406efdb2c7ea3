package utils

import (
	"errors"
	"fmt"
	"io"
)

var ErrTooLarge = errors.New("content exceeds size limit")

// ReadAllLimit reads r fully, failing once more than max bytes arrive.
// Used to cap individual document uploads before they are staged.
func ReadAllLimit(r io.Reader, max int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, max)
	}
	return b, nil
}
