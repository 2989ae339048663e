package controller

import "errors"

// ErrNotActive is returned by InputChar, DeleteChar and Repeat when the
// controller is Idle. Accept and Cancel return no error.
var ErrNotActive = errors.New("controller: search is not active")
