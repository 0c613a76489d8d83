package teams

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("team not found")

// MembersTakenError reports users that could not be assigned because they
// already belong to another team. The names are surfaced to the caller.
type MembersTakenError struct {
	Names []string
}

func (e *MembersTakenError) Error() string {
	return fmt.Sprintf("members already in a team: %s", strings.Join(e.Names, ", "))
}
