// Package git implements the repository transport used by the sync driver:
// clone, fetch, stage, commit, push and hard reset, on top of go-git.
//
// Credentials come from a CredentialProvider. The default provider reads an
// SSH private key from disk and takes its passphrase from SSH_PASSPHRASE;
// it never prompts.
package git
