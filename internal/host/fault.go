package host

import (
	"fmt"

	"github.com/aelexs/tickhost/internal/domain"
	"github.com/aelexs/tickhost/internal/tick"
)

// FaultError reports a pass that failed. Exactly one of Err and Panic is
// set. It matches domain.ErrPassFault with errors.Is.
type FaultError struct {
	Kind  tick.Kind
	Err   error
	Panic any
	Stack []byte
}

func (e *FaultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s pass faulted: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s pass panicked: %v", e.Kind, e.Panic)
}

func (e *FaultError) Unwrap() []error {
	errs := []error{domain.ErrPassFault}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if err, ok := e.Panic.(error); ok {
		errs = append(errs, err)
	}
	return errs
}
