// Package compat decides whether a SeekJob API server speaks a version
// this client supports.
package compat

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// MinServerVersion is the oldest API version the client works with.
const MinServerVersion = "1.0.0"

var (
	ErrInvalidVersion = errors.New("invalid semantic version")
	ErrTooOld         = errors.New("server version is older than supported")
	ErrNewerMajor     = errors.New("server has a newer major version")
)

// CheckInput names the versions to compare. Minimum defaults to
// MinServerVersion.
type CheckInput struct {
	ServerVersion string
	Minimum       string
}

// CheckResult is the outcome of a version comparison.
type CheckResult struct {
	Server  string
	Minimum string
	// Compatible is false when Err is ErrTooOld or ErrNewerMajor.
	Compatible bool
	Err        error
}

// Canonical returns v in "vMAJOR.MINOR.PATCH" form, accepting versions
// with or without the leading "v".
func Canonical(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidVersion)
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return semver.Canonical(v), nil
}

// Check compares the server version with the supported range: at least
// Minimum and within the same major version.
func Check(in CheckInput) (*CheckResult, error) {
	minimum := in.Minimum
	if minimum == "" {
		minimum = MinServerVersion
	}
	minV, err := Canonical(minimum)
	if err != nil {
		return nil, fmt.Errorf("minimum version: %w", err)
	}
	serverV, err := Canonical(in.ServerVersion)
	if err != nil {
		return nil, fmt.Errorf("server version: %w", err)
	}

	res := &CheckResult{Server: serverV, Minimum: minV, Compatible: true}
	switch {
	case semver.Compare(serverV, minV) < 0:
		res.Compatible = false
		res.Err = fmt.Errorf("%w: %s < %s", ErrTooOld, serverV, minV)
	case semver.Major(serverV) != semver.Major(minV):
		res.Compatible = false
		res.Err = fmt.Errorf("%w: %s", ErrNewerMajor, semver.Major(serverV))
	}
	return res, nil
}
