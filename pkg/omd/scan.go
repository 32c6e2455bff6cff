package omd

import (
	"os"
	"path/filepath"
)

// SitesRoot is the standard OMD installation prefix.
const SitesRoot = "/omd/sites"

type SiteInfo struct {
	Name   string
	Root   string
	Socket string
	// Live reports whether the socket currently exists.
	Live bool
}

// ScanSites lists the sites installed under root, SitesRoot when empty.
func ScanSites(root string) []SiteInfo {
	if root == "" {
		root = SitesRoot
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var sites []SiteInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		siteRoot := filepath.Join(root, entry.Name())
		socket := filepath.Join(siteRoot, SocketRelPath)
		sites = append(sites, SiteInfo{
			Name:   entry.Name(),
			Root:   siteRoot,
			Socket: socket,
			Live:   SocketExists(socket),
		})
	}
	return sites
}
