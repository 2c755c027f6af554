package loan

import "errors"

var (
	ErrLoanNotFound = errors.New("loan or advance record not found")
)
