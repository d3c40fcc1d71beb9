package steps

import (
	"io/fs"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

func globFS(fsys fs.FS, patterns []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "glob %q", pattern)
		}
		result = append(result, matches...)
	}
	slices.Sort(result)
	result = slices.Compact(result)
	return result, nil
}

// filterFiles returns the regular files matching include and not exclude,
// sorted and without duplicates.
func filterFiles(fsys fs.FS, include, exclude []string) ([]string, error) {
	included, err := globFS(fsys, include)
	if err != nil {
		return nil, errors.Wrap(err, "include filter")
	}

	excluded, err := globFS(fsys, exclude)
	if err != nil {
		return nil, errors.Wrap(err, "exclude filter")
	}

	var result []string
	for _, f := range included {
		info, err := fs.Stat(fsys, f)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", f)
		}
		if info.IsDir() {
			continue
		}
		if slices.Contains(excluded, f) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}
