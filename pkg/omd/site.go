// Package omd knows the filesystem and environment conventions of OMD sites.
package omd

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	EnvSocket = "OMD_LIVESTATUS_SOCKET"
	// EnvRoot is set for site users and anchors all site paths.
	EnvRoot = "OMD_ROOT"

	SocketRelPath = "tmp/run/live"
)

var ErrNoSocket = errors.New(
	"unable to determine location of Livestatus socket; set " + EnvSocket + " or run as an OMD site user")

// ResolveSocket picks the Livestatus location: an explicit value wins,
// then EnvSocket, then the default socket under EnvRoot.
func ResolveSocket(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if loc := os.Getenv(EnvSocket); loc != "" {
		return loc, nil
	}
	if root := os.Getenv(EnvRoot); root != "" {
		return filepath.Join(root, SocketRelPath), nil
	}
	return "", ErrNoSocket
}

type Site struct {
	Name   string
	Root   string
	Socket string
}

// DetectSite reports the surrounding OMD site, if any.
func DetectSite() (*Site, bool) {
	root := os.Getenv(EnvRoot)
	if root == "" {
		return nil, false
	}
	return &Site{
		Name:   filepath.Base(root),
		Root:   root,
		Socket: filepath.Join(root, SocketRelPath),
	}, true
}

// SocketExists reports whether path exists; socket-ness is not checked.
func SocketExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
