// Package selftest holds the fixed battery of lint and blacklist checks run by
// the CLI against the loaded blacklist.
package selftest

import (
	"fmt"
	"io"
	"strconv"
)

// Target is what the battery exercises; *checker.Checker satisfies it.
type Target interface {
	Valid(name string) (string, bool)
	ValidMaxLength(name string, maxLength int) (string, bool)
	Allowed(name, collection string) (bool, error)
}

// NoLimit marks a lint case without a length bound.
const NoLimit = -1

// LintCase is one lint expectation.
type LintCase struct {
	Name      string
	MaxLength int
	Valid     bool
}

// AllowCase is one blacklist expectation.
type AllowCase struct {
	Name       string
	Collection string
	Allowed    bool
}

// LintCases is the lint battery.
var LintCases = []LintCase{
	{"jake", 32, true},
	{"jake", NoLimit, true},
	{"jake", 3, false},
	{"0a", NoLimit, false},
	{"a0", NoLimit, true},
	{"a", NoLimit, true},
	{"a-", NoLimit, false},
	{"-a", NoLimit, false},
	{"a--a", NoLimit, false},
	{"a-a", NoLimit, true},
	{"a.b", NoLimit, false},
	{"a a", NoLimit, false},
}

// AllowCases is the blacklist battery. It assumes the default document.
var AllowCases = []AllowCase{
	{"jake", "all", true}, // random username
	{"Jake", "all", true},
	{"Jake.", "all", false},
	{"masdf", "all", true}, // 'm', followed by 'asdf'
	{"user", "all", false},
	{"webmaster", "all", false},
	{"admin", "all", false},
	{"AdmiN", "all", false},
	{"test123", "all", false},
	{"tesT0", "all", false},
	{"systemd-abc", "all", false},
	{"postmaster", "all", false},
	{"postmaster", "mail", false},
	{"postmaster", "null", true},
	{"null", "all", false},
	{"", "all", false},
}

func verdict(ok bool) string {
	if ok {
		return "allowed"
	}
	return "disallowed"
}

func maxLengthParam(n int) string {
	if n < 0 {
		return "None"
	}
	return strconv.Itoa(n)
}

// RunLint checks LintCases and prints one line per mismatch.
func RunLint(w io.Writer, t Target) bool {
	success := true
	for _, c := range LintCases {
		var ok bool
		if c.MaxLength < 0 {
			_, ok = t.Valid(c.Name)
		} else {
			_, ok = t.ValidMaxLength(c.Name, c.MaxLength)
		}
		if ok != c.Valid {
			success = false
			fmt.Fprintf(w, "expected %-4s with maxlength %-4s to be %s, was %s\n",
				c.Name, maxLengthParam(c.MaxLength), verdict(c.Valid), verdict(ok))
		}
	}
	return success
}

// RunAllowed checks AllowCases and prints one line per mismatch. An error
// from the target counts as a mismatch.
func RunAllowed(w io.Writer, t Target) bool {
	success := true
	for _, c := range AllowCases {
		ok, err := t.Allowed(c.Name, c.Collection)
		if err != nil {
			success = false
			fmt.Fprintf(w, "expected %-11s with collection %-4s to be %s, failed: %v\n",
				c.Name, c.Collection, verdict(c.Allowed), err)
			continue
		}
		if ok != c.Allowed {
			success = false
			fmt.Fprintf(w, "expected %-11s with collection %-4s to be %s, was %s\n",
				c.Name, c.Collection, verdict(c.Allowed), verdict(ok))
		}
	}
	return success
}

// Run executes both batteries, then prints OK or FAIL.
func Run(w io.Writer, t Target) bool {
	lint := RunLint(w, t)
	allowed := RunAllowed(w, t)
	if lint && allowed {
		fmt.Fprintln(w, "OK")
		return true
	}
	fmt.Fprintln(w, "FAIL")
	return false
}
