package checker

import "errors"

var errNotInt = errors.New("checker: not an integer")
