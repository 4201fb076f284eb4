package bean

import "errors"

// ErrDescriptorBuild is returned when a type cannot be turned into a model.
var ErrDescriptorBuild = errors.New("descriptor build failed")
