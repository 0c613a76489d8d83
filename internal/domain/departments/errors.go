package departments

import "errors"

var (
	ErrNotFound   = errors.New("department not found")
	ErrNameExists = errors.New("department name already exists")
)
