package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"cognitext/internal/config"
	"cognitext/internal/domain"
)

// SaveImage stores image bytes for the document at docPath and returns the
// link target to insert into the markdown.
// With ImageCopy the image goes to the relative "${filename}.assets"
// folder next to the document, or to the global folder when relative
// folders are not preferred. The other actions are not supported.
func (r *Repository) SaveImage(docPath, name string, data []byte, cfg domain.ImageSettings) (string, error) {
	if cfg.Action != domain.ImageCopy {
		return "", fmt.Errorf("image action %d: %w", cfg.Action, errors.ErrUnsupported)
	}
	if name == "" {
		name = "image.png"
	}
	name = filepath.Base(name)

	useRelative := cfg.PreferRelativeFolder || cfg.GlobalDir == ""
	var dir string
	if useRelative {
		folder := cfg.RelativeImageFolder(domain.FileNameWithoutExtension(docPath))
		dir = filepath.Join(filepath.Dir(docPath), folder)
	} else {
		dir = config.ExpandHome(cfg.GlobalDir)
	}

	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create image folder: %w", err)
	}

	target, err := createUnique(dir, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	if useRelative {
		rel, err := filepath.Rel(filepath.Dir(docPath), target)
		if err == nil {
			return path.Clean(filepath.ToSlash(rel)), nil
		}
	}
	return target, nil
}

// createUnique writes data to dir/name, appending "-1", "-2", ... to the
// base name until an unused name is found
func createUnique(dir, name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 0; i < 1000; i++ {
		candidate := name
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i) + ext
		}
		target := filepath.Join(dir, candidate)

		f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, config.FilePermissions)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(target)
			return "", err
		}
		return target, f.Close()
	}
	return "", fmt.Errorf("no free name for %s in %s", name, dir)
}
