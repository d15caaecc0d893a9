package base32

import "errors"

var (
	ErrEmptyInput       = errors.New("base32: empty input")
	ErrInvalidCharacter = errors.New("base32: invalid character")
)
