package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gyorgys/fdedupe/pkg/config"
	"github.com/gyorgys/fdedupe/pkg/fdedupe"
	"github.com/gyorgys/fdedupe/pkg/store"
)

// canonicalize resolves path to an absolute, symlink-resolved form, the
// canonical form every store row and walker result is keyed on.
func canonicalize(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve %s to an absolute path", path)
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", errors.Wrapf(err, "unable to resolve %s", absolute)
	}
	return resolved, nil
}

// canonicalizeRoots canonicalizes each of args, defaulting to the current
// working directory when args is empty.
func canonicalizeRoots(args []string) ([]string, error) {
	if len(args) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "unable to determine current directory")
		}
		args = []string{cwd}
	}

	roots := make([]string, 0, len(args))
	for _, arg := range args {
		canonical, err := canonicalize(arg)
		if err != nil {
			return nil, err
		}
		roots = append(roots, canonical)
	}
	return roots, nil
}

// resolveStorePath applies the precedence from spec.md §6: the --db flag,
// then the configuration file's db key, then the default store file name.
func resolveStorePath(command *cobra.Command, cfg *config.File) string {
	if dbFlag := command.Flags().Lookup("db"); dbFlag != nil && dbFlag.Changed {
		return dbFlag.Value.String()
	}
	if cfg.DB != nil {
		return *cfg.DB
	}
	return fdedupe.DefaultStoreFile
}

// openStore loads the configuration file, resolves the store path, and
// opens the store. Failure here is store-fatal.
func openStore(command *cobra.Command) (*store.Store, *config.File, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	path := resolveStorePath(command, cfg)
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}
