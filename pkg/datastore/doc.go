// Package datastore mirrors live dotfiles into the repository working tree.
//
// Each live path is classified into a namespace (xdg_config, homedir, root)
// and hard linked to the matching location under the repository root, so
// edits on either side are seen by the other. When the filesystem refuses a
// hard link the file is copied instead.
package datastore
