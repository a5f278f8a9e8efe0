// Package errors implements a small curated-error scheme. Every error
// raised anywhere in dscore is constructed with New() from one of the
// Errno categories declared in categories.go, with a fixed message
// template from messages.go. This keeps error text consistent and lets
// callers test for a category with Is() without string matching.
package errors

import "fmt"

// Errno identifies the category of a curated error.
type Errno int

// curated is the concrete type returned by New(). It is never exposed
// directly; callers interact with it through the error interface and
// the Is/Category helpers.
type curated struct {
	errno  Errno
	values []interface{}
}

// New constructs a curated error of the given category, formatting its
// message template with values.
func New(errno Errno, values ...interface{}) error {
	return curated{errno: errno, values: values}
}

func (c curated) Error() string {
	tmpl, ok := messages[c.errno]
	if !ok {
		return fmt.Sprintf("error %d", int(c.errno))
	}
	return fmt.Sprintf(tmpl, c.values...)
}

// Is reports whether err is a curated error of the given category.
func Is(err error, errno Errno) bool {
	if err == nil {
		return false
	}
	c, ok := err.(curated)
	return ok && c.errno == errno
}

// Category returns the Errno of a curated error, and false for any
// other error value (including nil).
func Category(err error) (Errno, bool) {
	c, ok := err.(curated)
	if !ok {
		return 0, false
	}
	return c.errno, true
}
