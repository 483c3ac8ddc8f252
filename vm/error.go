package vm

import "errors"

// ErrRecursionGuard is returned by RunDetailed when a search explores more
// distinct (pc, sc) pairs than Options.RecursionGuard allows, as a backstop
// against pathological zero-width-loop patterns beyond what (pc, sc)
// deduplication alone bounds.
var ErrRecursionGuard = errors.New("vm: recursion guard exceeded")
