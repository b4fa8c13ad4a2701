package segment

import "fmt"

// ParseError describes a problem with one container section.
type ParseError struct {
	Section int // 1-based position of the section in the raw text
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("container section %d: %s: %v", e.Section, e.Message, e.Cause)
	}
	return fmt.Sprintf("container section %d: %s", e.Section, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Warning is a non-fatal problem found while segmenting. Every section is
// still processed.
type Warning struct {
	ContainerID string
	InstanceID  string
	Err         error
}

func (w Warning) String() string {
	return fmt.Sprintf("container %s instance %s: %v", w.ContainerID, w.InstanceID, w.Err)
}
