package forms

import "errors"

var ErrNotFound = errors.New("evaluation form not found")
