package secd

import (
	"fmt"
	"strings"
)

// logging is a leveled, prefix-aligned trace hook threaded through a
// Runtime's heap and VM. Grounded in the teacher's core.go
// logging type: a nil logfn makes every call a no-op, and repeated marks
// are left-padded to the widest mark seen so far so trace columns line up.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

// withLogPrefix temporarily prefixes every subsequent log line with
// prefix, returning a function that restores the previous logfn. Nothing
// in this package calls it at present; the heap and VM tag their lines
// through logf's mark argument instead.
func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
